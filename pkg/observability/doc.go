/*
Package observability turns pipeline and gateway events into Prometheus
metrics.

Metrics implements the collectors; its Hooks method produces the
callbacks an Env consumes, so wiring is one option at assembly time.
Listen exposes the standard /metrics endpoint for runs long enough to
scrape, such as CI loops driving many submissions.
*/
package observability
