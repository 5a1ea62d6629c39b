// Package bot is PictureBot's turn router.
//
// # Turn Flow
//
// OnTurn handles one inbound message:
//
//  1. Load the ConversationState and UserProfile (defaults when absent)
//  2. Record the utterance, channel and UTC timestamp
//  3. On a conversation that was never greeted, begin the main dialog; its
//     greeting step greets, checkpoints the conversation, sends help and ends
//  4. Otherwise continue the active dialog, and begin main if nothing was sent
//  5. Persist both records, whether or not the turn failed
//
// A failed turn sends a generic apology, clears the dialog stack and returns
// the error alongside the replies.
//
// # Dialogs
//
//	main:   [greeting, mainMenu]
//	search: []
//
// The mainMenu step walks an ordered route table. Rule routes come first,
// then classifier routes; the classifier is called at most once per turn and
// never when a rule matched. Every classifier route ends with a sentiment
// reply.
//
// # Language
//
// The message language is detected once per turn. Non-English text is
// translated to English for routing, and localizable replies are translated
// back into the user's language.
//
// # Concurrency
//
// The Bot holds no per-conversation state. Callers must serialize turns for
// a conversation; the gateway does so with a keyed lock.
package bot
