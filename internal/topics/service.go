package topics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/No1se-pi/moder-bot/internal/journal"
)

// Sweep directions recorded in the journal.
const (
	ActionClose = "close"
	ActionOpen  = "open"
)

// API is the slice of the messaging platform the sweeps need.
// Thread id GeneralThreadID addresses the general topic.
type API interface {
	CloseTopic(chatID int64, threadID int) error
	ReopenTopic(chatID int64, threadID int) error
}

// Sweep is the outcome of one open or close pass over a chat's topics.
type Sweep struct {
	Attempted int
	Failed    int
}

// Service performs open/close sweeps. A failing topic is logged and skipped;
// partial success is normal (a topic may already be in the target state).
type Service struct {
	reg     *Registry
	api     API
	journal *journal.Journal // optional
	log     *zap.Logger
}

func NewService(reg *Registry, api API, jr *journal.Journal, log *zap.Logger) *Service {
	return &Service{reg: reg, api: api, journal: jr, log: log}
}

// Close closes the general topic and every registered topic of the chat.
func (s *Service) Close(ctx context.Context, chatID int64) (Sweep, error) {
	return s.sweep(ctx, chatID, ActionClose, s.api.CloseTopic)
}

// Open reopens the general topic and every registered topic of the chat.
func (s *Service) Open(ctx context.Context, chatID int64) (Sweep, error) {
	return s.sweep(ctx, chatID, ActionOpen, s.api.ReopenTopic)
}

func (s *Service) sweep(ctx context.Context, chatID int64, action string, call func(int64, int) error) (Sweep, error) {
	ids, err := s.reg.ActionIDs(chatID)
	if err != nil {
		return Sweep{}, err
	}

	var sw Sweep
	for _, id := range ids {
		sw.Attempted++
		if err := call(chatID, id); err != nil {
			sw.Failed++
			s.log.Warn("topic call failed",
				zap.String("action", action),
				zap.Int64("chat", chatID),
				zap.Int("topic", id),
				zap.Error(err),
			)
		}
	}

	s.record(ctx, chatID, action, sw)
	s.log.Info("sweep done",
		zap.String("action", action),
		zap.Int64("chat", chatID),
		zap.Int("attempted", sw.Attempted),
		zap.Int("failed", sw.Failed),
	)
	return sw, nil
}

// record writes the sweep to the journal. Journal trouble never fails a sweep.
func (s *Service) record(ctx context.Context, chatID int64, action string, sw Sweep) {
	if s.journal == nil {
		return
	}
	run := journal.Run{
		ChatID: chatID,
		Action: action,
		Topics: sw.Attempted,
		Failed: sw.Failed,
		At:     time.Now().UTC(),
	}
	if err := s.journal.Record(ctx, run); err != nil {
		s.log.Warn("journal write failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}
