// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The search Controller lives here too: it owns one session's index
// lifecycle and input debouncing, independent of any particular front end.
package services
