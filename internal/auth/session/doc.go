// Package session implements the admin session lifecycle.
//
// A successful login mints a short-lived PASETO v4.public access token bound
// to a server-side session row. Refresh rotates the session (new row + new
// token, old row blacklisted) once the token is past its no-op window;
// activity touches extend liveness; logout blacklists. A background sweeper
// blacklists expired rows and hard-deletes blacklisted ones.
//
// Policy: at most one non-blacklisted session per account. This is enforced
// by blacklisting priors inside the login transaction, not by a schema
// constraint, so a race between two simultaneous logins can transiently
// leave two live sessions.
package session
