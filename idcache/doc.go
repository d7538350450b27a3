// Package idcache is the Redis-backed identity cache used for cache-aside
// user resolution.
//
// Every cached user is written under two keys, one per lookup alias (id and
// email), with a single shared TTL. The cache is an availability optimization
// only: it holds no state the identity store does not, and a flushed or
// unreachable Redis degrades reads to the store rather than failing them.
//
// Records are stored as JSON. There is no negative caching; a miss is a miss
// every time until a populate writes the keys.
package idcache
