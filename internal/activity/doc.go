// Package activity defines what flows in and out of a turn.
//
// A Message is one inbound chat event. An Activity is one outbound reply:
// text, optionally with card attachments (hero, thumbnail, receipt, adaptive)
// or an image. Channels that cannot show cards use RenderMarkdown or
// RenderHTML to flatten them.
package activity
