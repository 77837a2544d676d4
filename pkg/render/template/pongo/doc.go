// Package pongo implements template.TemplateRenderer on top of pongo2 with
// Django style inheritance, filesystem or embedded loaders and cached
// templates.
package pongo
