// Package flows implements the login and register form controllers.
//
// A controller owns one form: it validates input, calls the Identity
// Service, commits a successful session to the store and to persistence,
// reports the result through its notification channel and finally
// navigates to the dashboard after a short delay.
//
// Each submission moves through
//
//	Idle -> Validating -> Invalid -> Idle
//	Idle -> Validating -> Submitting -> Success | Failed -> Idle
//
// and only one submission per controller may be in flight.
package flows
