// Package guard enforces the presence of an authenticated session before a
// code path proceeds.
//
// A single [Require] function performs the check. What happens when no
// session resolves is decided by the [OnAbsent] strategy passed to it:
//
//   - [RedirectTo] writes a 302 to the login page and reports [ErrRedirected].
//     Page handlers must return immediately when they see it.
//   - [Reject] writes nothing and reports [ErrUnauthorized], which API handlers
//     translate into a 401 response.
//
// [RequirePage] and [RequireAPI] bind those strategies for the two consumer
// contexts. The request is always passed explicitly; the guard keeps no state
// between calls and never returns a nil session with a nil error.
package guard
