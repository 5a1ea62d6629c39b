// Package dedupe remembers which inbound activities have been processed.
//
// Channels retry deliveries they think failed. The gateway reserves each
// activity ID before running a turn, stores the replies on completion, and
// answers a retry within the TTL with the stored replies:
//
//	state, replies := cache.Reserve(id)
//	switch state {
//	case dedupe.StateDone:    // replay replies
//	case dedupe.StatePending: // another request is running this activity
//	case dedupe.StateNew:     // run the turn, then Complete or Release
//	}
package dedupe
