// Package harness runs the embedded CMIS server for test suites.
//
// A Harness owns at most one server. Each suite calls EnsureRunning with the
// port and types it needs; the harness compares that against the running
// instance (see core/reconcile) and:
//
//  1. does nothing when the bound port and registered types already satisfy it;
//  2. otherwise stops the running instance (port changed or a type is missing);
//  3. probes the port, starts a fresh instance and waits until the base URI answers;
//  4. registers the types through a session on the default repository.
//
// Types registered by earlier suites are registered again after a restart
// unless Options.PruneStaleTypes is set. A type definition that fails to
// parse aborts the call before anything is stopped.
//
// Every error is a *StepError naming the failed step; errors.Is matches both
// its kind (ErrConfiguration, ErrPortUnavailable, ErrServerStart,
// ErrServerStop, ErrSession) and its cause.
//
// Lifecycle: stopped -> starting -> running -> stopping -> stopped, with
// failed after a start or stop failure. A failed harness can start again.
package harness
