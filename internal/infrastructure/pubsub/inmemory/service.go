package inmemorypubsub

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
)

// topics
const (
	PoolCreated Topic = iota
	LiquidityAdded
	LiquidityRemoved
	SwapSettled
	AllTopics
)

var (
	topicToLabel = map[Topic]string{
		PoolCreated:      "POOL_CREATED",
		LiquidityAdded:   "LIQUIDITY_ADDED",
		LiquidityRemoved: "LIQUIDITY_REMOVED",
		SwapSettled:      "SWAP",
		AllTopics:        "*",
	}
	labelToTopic = map[string]Topic{
		"POOL_CREATED":      PoolCreated,
		"LIQUIDITY_ADDED":   LiquidityAdded,
		"LIQUIDITY_REMOVED": LiquidityRemoved,
		"SWAP":              SwapSettled,
		"*":                 AllTopics,
	}

	// ErrInvalidTopic is returned whenever attempting to subscribe to an
	// unknown topic.
	ErrInvalidTopic = errors.New("topic is invalid")
)

type Topic int

func (t Topic) Code() int {
	return int(t)
}

func (t Topic) Label() string {
	label, ok := topicToLabel[t]
	if !ok {
		label = "UNKNOWN"
	}
	return label
}

type subscription struct {
	id    string
	topic string
}

func (s subscription) Topic() string   { return s.topic }
func (s subscription) Id() string      { return s.id }
func (s subscription) IsSecured() bool { return false }
func (s subscription) NotifyAt() string {
	return "inmemory"
}

// Service is a SecurePubSub that keeps published messages in memory grouped
// by topic. It serves as notification sink when no webhook endpoint is
// configured and doubles as a recorder in tests.
type Service struct {
	subs     map[string][]subscription
	messages map[string][]string
	lock     *sync.RWMutex
}

var _ ports.SecurePubSub = (*Service)(nil)

func NewPubSubService() *Service {
	return &Service{
		subs:     make(map[string][]subscription),
		messages: make(map[string][]string),
		lock:     &sync.RWMutex{},
	}
}

func (s *Service) Subscribe(topic string, _ ...interface{}) (string, error) {
	if _, ok := labelToTopic[topic]; !ok {
		return "", ErrInvalidTopic
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	sub := subscription{uuid.New().String(), topic}
	s.subs[topic] = append(s.subs[topic], sub)
	return sub.id, nil
}

func (s *Service) Unsubscribe(topic, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	subs := s.subs[topic]
	for i := range subs {
		if subs[i].id == id {
			s.subs[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	s.lock.RLock()
	defer s.lock.RUnlock()

	// collect into a fresh slice, appending to the map-held ones would let
	// concurrent readers write into the same backing array
	list := make(
		[]ports.Subscription, 0, len(s.subs[topic])+len(s.subs[ports.AnyTopic]),
	)
	for _, sub := range s.subs[topic] {
		list = append(list, sub)
	}
	if topic != ports.AnyTopic {
		for _, sub := range s.subs[ports.AnyTopic] {
			list = append(list, sub)
		}
	}
	return list
}

func (s *Service) Publish(topic string, message string) error {
	if _, ok := labelToTopic[topic]; !ok {
		return ErrInvalidTopic
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.messages[topic] = append(s.messages[topic], message)
	return nil
}

func (s *Service) TopicsByCode() map[int]ports.Topic {
	topics := make(map[int]ports.Topic)
	for topic := range topicToLabel {
		topics[int(topic)] = topic
	}
	return topics
}

func (s *Service) TopicsByLabel() map[string]ports.Topic {
	topics := make(map[string]ports.Topic)
	for label, topic := range labelToTopic {
		topics[label] = topic
	}
	return topics
}

// PublishedMessages returns the messages published so far for the given
// topic label.
func (s *Service) PublishedMessages(topic string) []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	messages := make([]string, len(s.messages[topic]))
	copy(messages, s.messages[topic])
	return messages
}
