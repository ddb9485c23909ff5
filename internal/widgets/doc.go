// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (pane chrome, stacks, popup overlay compositor)
//
// Not allowed here:
// - key handling, calculator state, or API calls
package widgets
