// Package logging provides a unified logging interface for the loop executor
// and its command line front end. It abstracts the underlying logging
// implementation, allowing consistent logging across components while
// supporting multiple backends (zerolog and the standard log package).
package logging
