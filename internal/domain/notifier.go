package domain

// ChangeNotifier pushes "something changed" signals for a session. The core
// reacts to signals by recomputing derived state; the transport behind
// Subscribe is an implementation detail.
type ChangeNotifier interface {
	// Publish signals that the session's stored state changed. Never blocks.
	Publish(sessionID string)
	// Subscribe returns a channel receiving a signal per change (bursts may be
	// coalesced) and a cancel function releasing the subscription.
	Subscribe(sessionID string) (<-chan struct{}, func())
}
