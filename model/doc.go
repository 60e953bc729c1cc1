// Package model contains the value types shared by the simulation engines.
//
// The `resource` sub-package holds the banker's-algorithm matrices and the
// `process` sub-package holds the process control block used by the
// scheduling engine. Both are plain data: engines own and mutate them, the
// model itself carries only derivations, copies and invariant checks.
package model
