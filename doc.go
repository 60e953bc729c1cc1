// Package ossim simulates two operating-system resource-management
// mechanisms: a banker's-algorithm resource engine that only grants requests
// leaving the system in a safe state, and a discrete-tick CPU scheduling
// engine offering first-come-first-served and highest-priority-first with
// aging.
//
// End-users typically interact with both engines through the Service façade:
//
//	cfg, _ := ossim.LoadConfig(ctx, "scenario.yaml")
//	srv, _ := ossim.NewFromConfig(cfg)
//	defer srv.Close()
//	report, _ := srv.Run(ctx)
//	fmt.Print(report)
//
// Engine events are published on an in-memory queue and kept in a journal
// that can be listed after a run.
package ossim
