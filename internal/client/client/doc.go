// Package client talks to the authkeeper backend.
//
// # Overview
//
//  1. A transport-agnostic contract (see the Client interface): Signup,
//     Login, Refresh, WhoAmI and Ping.
//  2. A concrete gRPC implementation (see GRPCClient) that keeps the current
//     token pair, injects the access token via an interceptor, transparently
//     refreshes it once when the server answers Unauthenticated, and maps
//     gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrAlreadyExists, ErrInvalidInput and ErrSessionExpired. The latter means
// the refresh token was rejected and the user has to log in again.
package client
