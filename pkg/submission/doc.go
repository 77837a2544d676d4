// Package submission defines the backend that receives a registration
// snapshot, with simulated, HTTP and Redis queue implementations and
// middleware for timeouts, logging, metrics and tracing. FromConfig builds a
// decorated backend from configuration.
package submission
