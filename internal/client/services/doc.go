// Package services holds the session-level application services of the
// client: restoring a persisted session at startup, and the logout,
// refresh and profile operations on an active session.
//
// Both services mutate the session.Store and mirror token changes to a
// tokens.Repository. Neither returns Identity Service failures as fatal:
// the worst outcome is an unauthenticated session.
package services
