package conversation

import (
	"sync"

	"github.com/samber/do"
)

// Histories keep their leading system messages forever; beyond those, at
// most maxHistoryMessages user/assistant turns are retained and the
// oldest is dropped first.
const maxHistoryMessages = 40

// Service is the per-user conversation state table: ordered message
// history plus the most recently sent reply, keyed by platform user ID.
// Entries are created lazily and live for the process lifetime.
type Service struct {
	mu        sync.RWMutex
	histories map[string][]Message
	lastReply map[string]string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		histories: make(map[string][]Message),
		lastReply: make(map[string]string),
	}, nil
}

// Messages returns a snapshot of the user's history, nil if the user has
// none yet.
func (s *Service) Messages(userID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[userID]
	if !ok {
		return nil
	}

	out := make([]Message, len(history))
	copy(out, history)

	return out
}

func (s *Service) Append(userID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.histories[userID], msg)

	systemPrefix := 0
	for _, m := range history {
		if m.Role != RoleSystem {
			break
		}
		systemPrefix++
	}

	if len(history)-systemPrefix > maxHistoryMessages {
		history = append(history[:systemPrefix], history[systemPrefix+1:]...)
	}

	s.histories[userID] = history
}

// RemoveLast drops the newest message from the user's history. Used to
// roll back a user turn when the provider call fails.
func (s *Service) RemoveLast(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.histories[userID]
	if len(history) == 0 {
		return
	}

	s.histories[userID] = history[:len(history)-1]
}

func (s *Service) Len(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.histories[userID])
}

func (s *Service) LastReply(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastReply[userID]
}

func (s *Service) SetLastReply(userID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastReply[userID] = text
}
