// Package providers talks to the hosted generative model.
//
// Gemini is the only backend. A Generator makes exactly one generateContent
// call per request: there is no retry, no streaming and no back-off. Auth and
// quota failures are still classified (see [IsAuthError] and
// [IsRateLimitError]) so callers can word their messages.
//
// Endpoints and HTTP clients are injected through [Options] so tests can point
// at local httptest servers.
package providers
