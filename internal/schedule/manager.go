// Package schedule reconciles stored chat records into scheduler jobs.
package schedule

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/No1se-pi/moder-bot/internal/domain"
	"github.com/No1se-pi/moder-bot/internal/scheduler"
	"github.com/No1se-pi/moder-bot/internal/store"
	"github.com/No1se-pi/moder-bot/internal/topics"
)

// Manager installs and removes a chat's job pair. It owns no state: the
// store is the source of truth, the scheduler holds the live jobs, and the
// manager only maps one onto the other.
type Manager struct {
	store  *store.Store
	cron   *scheduler.Scheduler
	topics *topics.Service
	log    *zap.Logger
}

func NewManager(st *store.Store, cron *scheduler.Scheduler, svc *topics.Service, log *zap.Logger) *Manager {
	return &Manager{store: st, cron: cron, topics: svc, log: log}
}

// Install parses both times and replaces the chat's close/open job pair.
// Malformed input is rejected before anything is touched.
func (m *Manager) Install(chatID int64, closeTime, openTime string) error {
	closeAt, err := domain.ParseClock(closeTime)
	if err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	openAt, err := domain.ParseClock(openTime)
	if err != nil {
		return fmt.Errorf("open time: %w", err)
	}

	m.cron.RemoveChat(chatID)
	m.cron.Add(scheduler.CloseJobID(chatID), closeAt.Hour, closeAt.Minute, func(ctx context.Context) {
		if _, err := m.topics.Close(ctx, chatID); err != nil {
			m.log.Error("scheduled close failed", zap.Int64("chat", chatID), zap.Error(err))
		}
	})
	m.cron.Add(scheduler.OpenJobID(chatID), openAt.Hour, openAt.Minute, func(ctx context.Context) {
		if _, err := m.topics.Open(ctx, chatID); err != nil {
			m.log.Error("scheduled open failed", zap.Int64("chat", chatID), zap.Error(err))
		}
	})

	m.log.Info("schedule installed",
		zap.Int64("chat", chatID),
		zap.String("close", closeAt.String()),
		zap.String("open", openAt.String()),
	)
	return nil
}

// Uninstall removes the chat's job pair. The store is left alone; callers
// decide whether the chat is also disabled.
func (m *Manager) Uninstall(chatID int64) {
	m.cron.RemoveChat(chatID)
}

// LoadAll installs jobs for every enabled chat. This is how schedules come
// back after a restart; the job registry itself is not persisted. A record
// that fails to install is logged and skipped so the rest still load.
func (m *Manager) LoadAll() error {
	chats, err := m.store.AllChats()
	if err != nil {
		return err
	}
	for chatID, rec := range chats {
		if !rec.Enabled {
			continue
		}
		if err := m.Install(chatID, rec.CloseTime, rec.OpenTime); err != nil {
			m.log.Error("skipping chat with bad schedule", zap.Int64("chat", chatID), zap.Error(err))
		}
	}
	return nil
}
