// Package matrix connects the bot to Matrix rooms.
//
// Each room is a conversation. Text messages from allowed users in allowed
// rooms run a turn through the gateway's HandleActivity, so Matrix shares
// dedupe and per-conversation ordering with the HTTP endpoint. Replies are
// rendered with activity.RenderHTML and sent as org.matrix.custom.html with
// the markdown rendering as the plain body.
//
// The bot accepts invites from allowed users, and a user joining a room
// produces a conversationUpdate so the bot welcomes them.
//
// E2EE is not supported; the bot only reads unencrypted rooms.
package matrix
