// Package cli provides the interactive ThonHub terminal client.
//
// It wires configuration, the persisted credential store, the authenticated
// request pipeline and the API services into a read-eval-print loop. A
// background watcher prints a notice when the session expires, so the user
// can log in again without restarting.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
