// Package internal implements the HTTP runtime behind the hireloop root
// package: the App, the request Context, routing on top of chi, error
// types and graceful shutdown.
//
// Handlers receive a [Context] and return an error. Errors that reach the
// top are passed to the configured [ErrorHandler]; an [HTTPError] carries
// the status code, client message and a machine-readable code.
//
// Application code should import the root package, which re-exports the
// public surface as type aliases.
package internal
