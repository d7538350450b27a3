// Package password implements argon2id hashing and verification for local
// accounts.
//
// Hashes are PHC strings, so each stored hash carries the parameters it was
// derived with and verification never depends on the current Config. The
// engine treats this package as an opaque one-way hash+verify capability.
package password
