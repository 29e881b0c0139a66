package cli

import (
	"context"
)

// Root runs the REPL until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to ThonHub CLI (type 'help' for commands)")

	go a.WatchSession(ctx, a.pipeline.SessionExpired(ctx))

	if !a.isLoggedIn() {
		a.println("You are not logged in. Type 'login' to start.")
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.printf)
}
