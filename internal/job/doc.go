// Package job implements in-memory tracking and background execution of
// asynchronous jobs. A job is created in the Store, handed to the Runner
// together with a worker function, and then mutated exclusively through the
// Store's named operations while the work proceeds off the request path.
// Lifecycle outcomes and incremental progress are reported to an optional
// webhook address through the Notifier.
//
// Job records live only for the lifetime of the process. Durability is a
// deliberate non-goal; stale records are reclaimed by the Janitor.
package job
