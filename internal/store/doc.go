// Package store provides persistence for per-conversation and per-user state.
//
// # Architecture
//
// The bot treats storage as an opaque key/value store. StateStore exposes
// Load, Save and Close over byte slices; the conversation package owns the
// encoding of the values.
//
//   - SQLiteStore: durable store backed by modernc.org/sqlite
//   - MemoryStore: in-memory store for tests and the local chat REPL
//
// # Keys
//
// Keys are built with ConversationKey and UserKey:
//
//	conversation/<conversationId>
//	user/<userId>
//
// # Concurrency
//
// Neither implementation locks across a Load/Save pair. At most one turn per
// conversation may be in flight; the gateway enforces that with a keyed mutex.
// User profiles are shared across a user's conversations, so the last turn to
// save wins.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode and a busy timeout:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// # Error Handling
//
//   - ErrNotFound: nothing stored under the key
//   - ErrEmptyKey: blank key passed by the caller
package store
