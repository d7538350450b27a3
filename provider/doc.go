// Package provider verifies third-party OAuth access tokens and extracts the
// identity they attest to.
//
// A [Verifier] takes a bearer token the client already obtained from the
// provider and asks the provider's userinfo endpoint whether it is live,
// returning the verified email. This package never runs an OAuth flow itself;
// redirect handling and token exchange belong to the application.
//
// Verifiers for Google and Yandex are included. Any service with a
// token-introspection endpoint can be added by implementing [Verifier].
package provider
