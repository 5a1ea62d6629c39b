// Package auth authenticates channel connectors posting to the gateway.
//
// Connectors present an HS256 JWT in the Authorization header:
//
//	Authorization: Bearer <token>
//
// Tokens are signed with the configured auth.jwt_secret, carry issuer
// "picbot", and name the channel in the "sub" claim. Issue one with
//
//	picbot token <channel-id> --expires 720h
//
// Middleware verifies the token and stores the channel in the request
// context, where handlers read it with ChannelFromContext. When no secret is
// configured the gateway skips the middleware entirely.
package auth
