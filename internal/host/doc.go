// Package host provides the surface panels, commands and embedded programs
// are hosted on.
//
// The interfaces (Host, SerializerHost, Panel, Program, WebviewAPI) are what
// extension code depends on. Local is the in-process implementation used by
// the terminal program and by tests: it keeps a command table, a set of live
// panels, the registry of embedded programs, and optionally writes every
// panel through to a Store so panels can be restored after a restart.
//
// Local is single-threaded. Every method must be called from the goroutine
// that drives the UI loop. Messages posted by embedded programs are queued and
// delivered after the host call that produced them returns, one at a time and
// in order, so a handler never observes a half-applied operation.
package host
