package publisher

// Publisher represents a service for publishing listing events
type Publisher interface {
	// Publish publishes an encoded listing event to the stream
	Publish(message []byte) error

	// Close closes the publisher connection
	Close() error
}
