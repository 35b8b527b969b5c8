// Package cli provides the interactive authkeeper command-line client.
//
// It wires configuration and the gRPC client into a small REPL:
//
//   - signup   create an account (password read without echo)
//   - login    obtain an access and refresh token pair
//   - refresh  rotate the token pair explicitly
//   - whoami   call the protected endpoint; refreshes once if needed
//   - logout   forget local tokens
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
