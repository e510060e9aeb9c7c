// Package cli provides the interactive hireportal terminal client.
//
// It wires configuration, token storage, the Identity Service client, the
// session services and the login/register controllers behind a small REPL.
// The client keeps a current "path" (/login, /register, /dashboard) the way a
// browser would; protected paths fall back to the login path while no
// session is active.
//
// Typical flow: the persisted session is restored in the background, the
// user logs in or registers, and after a short delay the dashboard is shown.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
