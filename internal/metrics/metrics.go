// Package metrics exposes engine counters to Prometheus.
package metrics

// Recorder receives engine events. Implementations must be safe for concurrent use.
type Recorder interface {
	// RequestCreated counts request intake by outcome status (approved or pending).
	RequestCreated(status string)
	// RequestTransition counts lifecycle actions (assign, acknowledge, complete).
	RequestTransition(action string)
	// DeliveryAssigned counts borrowed-item delivery assignments.
	DeliveryAssigned()
	// CheckoutSweep records one sweep run.
	CheckoutSweep(archived, blocked int, failed bool)
	// RealtimeConnections sets the number of connected websocket clients.
	RealtimeConnections(n int)
}

// Nop discards every event
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RequestCreated(string) {}
func (Nop) RequestTransition(string) {}
func (Nop) DeliveryAssigned() {}
func (Nop) CheckoutSweep(int, int, bool) {}
func (Nop) RealtimeConnections(int) {}
