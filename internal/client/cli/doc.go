// Package cli provides the interactive FeedbackHub command-line client.
//
// It wires configuration, the local session database, the API client, the
// session store, the route guard and the feedback controller behind a REPL.
// Every screen is reached through the router, so a command is only offered
// when the current screen allows it.
//
// Key features:
//   - Login / Register / Logout, with the session restored on start
//   - USER dashboard: list, new, edit within the edit window, delete, watch
//   - ADMIN dashboard: list, filter by category, stats
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
