package ports

const AnyTopic = "*"

// Publisher is the collaborator notified of every committed mutation of the
// ledger.
type Publisher interface {
	// Publish sends the message to the subscribers of the given topic.
	Publish(topic string, message string) error
}
