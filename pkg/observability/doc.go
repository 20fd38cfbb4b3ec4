/*
Package observability turns mover and driver lifecycle events into
Prometheus metrics and structured log lines.

Both are plain domain.LifecycleHooks, so they can be merged and handed to
the movers (movers.WithLifecycleHooks) and to the simulation driver
(pathsampling.WithLifecycleHooks).
*/
package observability
