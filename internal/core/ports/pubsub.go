package ports

const AnyTopic = "*"

type Topic interface {
	Code() int
	Label() string
}

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// SecurePubSub defines the methods of the notification service consumed by
// the core. Delivery is purely observational, no core behavior depends on it.
type SecurePubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic string, args ...interface{}) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed
	// for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
	// TopicsByCode returns all the topics supported by the service mapped by
	// their code.
	TopicsByCode() map[int]Topic
	// TopicsByLabel returns all the topics supported by the service mapped by
	// their label.
	TopicsByLabel() map[string]Topic
}
