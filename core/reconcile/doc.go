// Package reconcile decides whether a running embedded server can serve a newly
// initialising suite or must be restarted.
//
// The decision compares two views of the server:
//
//   - Current: whether an instance runs, its bound port and the custom types
//     registered on it.
//   - Desired: the port the suite asks for (fixed or dynamic) and the types it
//     expects.
//
// # Rules
//
//  1. Nothing running: no restart; the plan is a fresh start.
//  2. The bound port does not satisfy the requested port: restart.
//  3. A desired type id is not registered: restart.
//  4. Otherwise the running instance is reused. Desired types that are a subset
//     of the registered ones never force a restart.
//
// # Stale types
//
// Types registered by earlier suites and not requested now are reported as stale.
// They are carried over to the restarted instance unless Options.PruneStaleTypes
// is set. Stale types alone never trigger a restart.
//
// # Usage
//
//	plan := reconcile.Decide(current, desired, reconcile.Options{})
//	if plan.Restart {
//	    // stop, then start and register plan.Register
//	}
package reconcile
