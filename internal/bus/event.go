package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the core components. UI chrome subscribes to
// queue. events to render the pending-sync badge.
const (
	KindQueueSizeChanged = "queue.size_changed"
	KindNetworkOnline    = "network.online"
	KindNetworkOffline   = "network.offline"
	KindSyncStarted      = "sync.started"
	KindSyncCompleted    = "sync.completed"
	KindSyncBlocked      = "sync.blocked"
	KindDayUpdated       = "day.updated"
)
