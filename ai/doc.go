// Package ai defines the boundary to the external extraction capability.
//
// The capability is a generative text-to-structured-record function and is
// treated as a black box that may fail, refuse, or return invalid output.
// This package owns the interface, the request/response types, and the
// sentinel error that distinguishes unparseable output (repairable by the
// caller) from transport failures (retried with backoff by the caller).
//
// Subpackages provide implementations: openai talks to any OpenAI-compatible
// chat API, mock provides scripted test doubles.
package ai
