/*
Package errs provides custom error types and application-level error code constants.

These error codes classify every failure the client can surface: authentication
rejections, transport problems on HTTP calls, streaming connection loss, and
locally rejected user input.
*/
package errs

// 1xxx: Authentication and Session Errors
const (
	// ErrAuthFailed indicates the login or registration collaborator rejected the
	// supplied credentials. User-correctable, never retried automatically.
	ErrAuthFailed = 1001

	// ErrSessionAnonymous indicates the session-introspection call did not yield a
	// valid identity. Internal only, surfaced as the home view rather than a message.
	ErrSessionAnonymous = 1002
)

// 2xxx: Network and Transport Errors
const (
	// ErrNetwork indicates an HTTP call to a collaborator failed at the transport
	// level (connection refused, timeout, DNS).
	ErrNetwork = 2001

	// ErrBadResponse indicates a collaborator returned a response whose body could
	// not be decoded.
	ErrBadResponse = 2002
)

// 3xxx: Streaming Connection Errors
const (
	// ErrConnectFailed indicates the streaming connection could not be established.
	ErrConnectFailed = 3001

	// ErrNotConnected indicates a send was attempted while the streaming
	// connection was not open.
	ErrNotConnected = 3002

	// ErrConnectionLost indicates the streaming connection dropped, from either end.
	ErrConnectionLost = 3003
)

// 4xxx: Local Input Errors
const (
	// ErrBlankMessage indicates the outbound message was empty after trimming.
	ErrBlankMessage = 4001

	// ErrLoginRequired indicates a view requiring an identity was entered while
	// anonymous.
	ErrLoginRequired = 4002
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
