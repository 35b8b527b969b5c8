package common

// AuthorizationHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests. gRPC lowercases metadata keys.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the authentication scheme expected in front of the token.
const BearerScheme = "Bearer"
