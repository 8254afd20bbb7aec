// Package server holds the HTTP server configuration, including the
// consortium center roster used to gate submissions.
package server
