// Package server serves the registration flow over HTTP: the landing page,
// the registration form backed by one form.Controller per session, a JSON
// status endpoint and a websocket stream of state changes.
package server
