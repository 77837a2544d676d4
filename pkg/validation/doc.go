// Package validation holds the registration rule table. Each field owns an
// ordered list of rules; evaluation stops at the first failure so a field
// reports at most one message. Validate is pure and always re-evaluates every
// rule from scratch.
package validation
