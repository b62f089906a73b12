/*
Package observability provides tools for monitoring tree builds.

It includes Prometheus metrics fed by builder lifecycle hooks and by an
instrumented node service, hook composition, and structured logging hooks.
*/
package observability
