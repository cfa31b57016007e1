// Package store provides keyed registries of signals on top of the
// reactive core.
//
// A Registry maps opaque handles to lazily created signals, letting a
// definition (Def) be declared once at package level and instantiated
// per scope — per session, per test, per request — without global state.
// Global wraps a process-wide signal for state genuinely shared by every
// scope.
package store
