/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
notifications and internal error handling.
*/
package errs

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user-facing message.
var errorMap = map[int]CustomError{
	// 1xxx: Authentication and Session Errors
	ErrAuthFailed:       {Code: ErrAuthFailed, Message: "Authentication failed. Check your details."},
	ErrSessionAnonymous: {Code: ErrSessionAnonymous, Message: "No active session."},

	// 2xxx: Network and Transport Errors
	ErrNetwork:     {Code: ErrNetwork, Message: "Network error. Please try again."},
	ErrBadResponse: {Code: ErrBadResponse, Message: "Unexpected server response."},

	// 3xxx: Streaming Connection Errors
	ErrConnectFailed:  {Code: ErrConnectFailed, Message: "Could not connect to the chat server."},
	ErrNotConnected:   {Code: ErrNotConnected, Message: "Not connected to the chat."},
	ErrConnectionLost: {Code: ErrConnectionLost, Message: "Disconnected from the chat server."},

	// 4xxx: Local Input Errors
	ErrBlankMessage:  {Code: ErrBlankMessage, Message: "Cannot send an empty message."},
	ErrLoginRequired: {Code: ErrLoginRequired, Message: "Sign in to use the chat."},

	// 5xxx: Internal Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again."},
}
