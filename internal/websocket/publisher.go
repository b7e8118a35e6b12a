package websocket

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	Publish(workspaceID int32, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish broadcasts the event to the workspace. Events that change a snapshot
// collection are followed by a summary.invalidated event so dashboards refetch.
func (h *Hub) Publish(workspaceID int32, event Event) {
	h.Broadcast(workspaceID, event)
	if event.InvalidatesSummary() {
		h.Broadcast(workspaceID, SummaryInvalidated(event.Entity))
	}
}
