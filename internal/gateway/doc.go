// Package gateway exposes the bot to channel connectors over HTTP.
//
// # Endpoints
//
//	POST /api/messages   run one turn, reply {"activities": [...]}
//	GET  /health         liveness
//	GET  /health/ready   readiness, 503 while shutting down
//
// When auth.jwt_secret is configured, /api/messages requires a channel
// bearer token (see package auth). The token's channel fills an empty
// channelId and must match a non-empty one.
//
// # Turn Dispatch
//
// HandleActivity is shared by the HTTP handler and in-process connectors
// such as the Matrix client. For each activity it:
//
//  1. Reserves "activity:<channelId>:<id>" in the dedupe cache, replaying
//     stored replies for a redelivery
//  2. Waits for the conversation's lock, so turns of one conversation never
//     overlap while different conversations run concurrently
//  3. Runs the turn under server.turn_timeout
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, bot, logger)
//	err = gw.Run(ctx) // blocks until ctx is canceled, then shuts down
package gateway
