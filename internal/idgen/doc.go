// Package idgen produces identifiers for simulated processes and journal
// entries. Identifiers are opaque strings; tests replace NewFunc to get
// predictable values.
package idgen
