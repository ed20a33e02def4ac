// Package logging provides a unified logging interface for the sieve
// application. It abstracts the underlying logging implementation,
// allowing consistent structured logging across components.
package logging
