// Package pkgauth resolves the identity of the caller from a bearer token.
//
// Tokens are HMAC-signed JWTs. Issuing tokens belongs to a separate auth
// service; this package verifies them, extracts the user id and carries it in
// the request context so modules can scope data to the requesting user.
package pkgauth
