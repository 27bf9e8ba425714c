// Package directory wraps the LDAP client used to read package entries from
// the legacy directory service.
//
// A Session is opened by Dial, which connects and binds in one step; bind
// credentials are mandatory and never defaulted. Session.Search streams
// entries through a Cursor backed by an asynchronous search, so callers can
// decode entries while the server is still sending them.
package directory
