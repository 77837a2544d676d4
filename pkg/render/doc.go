// Package render defines the contract between the registration layout and
// concrete presenters, plus helpers shared by them: hidden inputs and CSRF
// tokens, remote error mapping, and a registry that negotiates a renderer
// from an Accept header.
package render
