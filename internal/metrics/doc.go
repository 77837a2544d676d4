// Package metrics exposes Prometheus collectors for registration sessions,
// validation failures and submission outcomes.
package metrics
