// ABOUTME: Request context carrying the authenticated channel
// ABOUTME: Set by the HTTP middleware, read by the messages handler

package auth

import "context"

type channelKey struct{}

// WithChannel returns ctx carrying the authenticated channel ID.
func WithChannel(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelKey{}, channelID)
}

// ChannelFromContext returns the authenticated channel ID, or "" when the
// request was not authenticated.
func ChannelFromContext(ctx context.Context) string {
	channelID, _ := ctx.Value(channelKey{}).(string)
	return channelID
}
