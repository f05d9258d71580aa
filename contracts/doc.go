// Package contracts defines the marker interfaces and error taxonomy shared
// by every concordia component.
//
// The two marker interfaces divide the world the same way CQRS does:
//   - Request: an operation handled by exactly one handler, optionally
//     producing a response ("command" when no response is expected)
//   - Notification: a broadcast event observed by zero or more handlers
//
// Both are deliberately empty. Requests and notifications are plain,
// caller-owned data; the engine resolves handlers from their runtime type
// and never mutates or retains them beyond the call. BaseRequest and
// BaseNotification are optional embeddables for callers that want message
// identity and correlation out of the box.
package contracts
