// Package conversation holds the state that survives between turns.
//
// # Records
//
// Two records are kept per message:
//
//   - ConversationState: greeted flag, dialog stack, last channel and timestamp
//   - UserProfile: detected language and recent utterances
//
// They have independent lifecycles. A user's profile is shared across every
// conversation that user takes part in.
//
// # Service
//
// The Service adapts records to the opaque store.StateStore:
//
//	svc := conversation.New(stateStore, conversation.DefaultHistoryLimit, logger)
//	conv, err := svc.LoadConversation(ctx, msg.ConversationID)
//	user, err := svc.LoadUser(ctx, msg.UserID)
//	...
//	err = svc.Save(ctx, conv, user)
//
// A record that cannot be decoded is replaced by defaults and logged at warn
// level. Storage failures are returned to the caller.
//
// # Encoding
//
// Records are JSON. The dialog stack is stored as dialog names and step
// indexes, so it can be reloaded by any process with the same registry:
//
//	{"conversationId":"c1","greeted":"greeted",
//	 "dialogStack":[{"dialogId":"main","stepIndex":1,"state":"waiting_input"}],
//	 "lastChannelId":"matrix","lastTimestamp":"2024-05-01T10:00:00Z"}
//
// UtteranceHistory keeps at most the configured number of entries, oldest
// dropped first.
package conversation
