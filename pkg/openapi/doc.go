// Package openapi embeds the OpenAPI 3 contract of the downstream
// registration endpoint and validates snapshots against it.
package openapi
