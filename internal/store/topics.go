package store

import (
	"slices"
	"strconv"
)

// AddDiscoveredTopic upserts a topic display name for a chat. Discovery only
// records the name for visibility; it does not enroll the topic in sweeps.
func (s *Store) AddDiscoveredTopic(chatID int64, topicID int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	rec := doc.Chats[chatKey(chatID)]
	if rec == nil {
		rec = &ChatRecord{}
		doc.Chats[chatKey(chatID)] = rec
	}
	if rec.Topics == nil {
		rec.Topics = map[string]string{}
	}
	rec.Topics[strconv.Itoa(topicID)] = name
	return s.save(doc)
}

// RegisterTopic enrolls a topic in the open/close sweep for a chat.
// Registering an already registered topic is a no-op.
func (s *Store) RegisterTopic(chatID int64, topicID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	rec := doc.Chats[chatKey(chatID)]
	if rec == nil {
		rec = &ChatRecord{}
		doc.Chats[chatKey(chatID)] = rec
	}
	if slices.Contains(rec.TopicIDs, topicID) {
		return nil
	}
	rec.TopicIDs = append(rec.TopicIDs, topicID)
	return s.save(doc)
}

// UnregisterTopic removes a topic from the sweep set. A missing chat or an
// unregistered topic is a no-op, not an error.
func (s *Store) UnregisterTopic(chatID int64, topicID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	rec := doc.Chats[chatKey(chatID)]
	if rec == nil {
		return nil
	}
	i := slices.Index(rec.TopicIDs, topicID)
	if i < 0 {
		return nil
	}
	rec.TopicIDs = slices.Delete(rec.TopicIDs, i, i+1)
	return s.save(doc)
}

// RegisteredTopics returns the manually registered topic ids for a chat.
func (s *Store) RegisteredTopics(chatID int64) ([]int, error) {
	rec, ok, err := s.Chat(chatID)
	if err != nil || !ok {
		return nil, err
	}
	return slices.Clone(rec.TopicIDs), nil
}

// TopicNames returns the discovered topic names for a chat, keyed by topic id.
func (s *Store) TopicNames(chatID int64) (map[string]string, error) {
	rec, ok, err := s.Chat(chatID)
	if err != nil || !ok {
		return nil, err
	}
	return rec.Topics, nil
}
