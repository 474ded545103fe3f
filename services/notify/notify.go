package notify

// Notifier delivers a rendered message to the subscriber
type Notifier interface {
	Send(text string) error
}
