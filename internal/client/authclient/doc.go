// Package authclient is the authenticated HTTP client layer.
//
// A Client attaches the stored access token to every request, classifies the
// response and, when the server reports an expired access token, asks the
// Coordinator for a new one. The Coordinator performs at most one refresh
// exchange at a time: callers that hit an expired token while a refresh is in
// flight are queued and released, in arrival order, with the outcome of that
// single exchange. Each request is replayed at most once.
//
// Pipeline
//
//	Request ─► Authenticator.Attach ─► Transport.Send ─► Classify ─► Outcome
//	                                                       │
//	                                 AuthExpired ◄─────────┘
//	                                      │
//	                          Coordinator.OnAuthExpired ─► replay once
//
// Storage of credentials, the wire transport and the reaction to a forced
// logout are supplied by the caller through CredentialStore, Transport and
// SessionObserver.
package authclient
