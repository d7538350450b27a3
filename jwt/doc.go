// Package jwt wraps golang-jwt for the engine's access tokens.
//
// Access tokens are stateless bearer values: signature and expiry are the only
// checks, and issued tokens stay valid until exp even after logout or refresh
// rotation. The engine bounds the exposure with a short AccessTTL.
//
// # What this package must NOT do
//
//   - Touch Redis, the identity store, or any I/O.
//   - Import goIdentity (the root package converts role types itself).
package jwt
