package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/No1se-pi/moder-bot/internal/domain"
	"github.com/No1se-pi/moder-bot/internal/store"
	"github.com/No1se-pi/moder-bot/internal/topics"
)

// --- Public commands ---

func (r *Router) handleStart(c tele.Context) error {
	return c.Reply(textStart)
}

func (r *Router) handleMyID(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	username := "not set"
	if sender.Username != "" {
		username = "@" + sender.Username
	}
	return c.Reply(fmt.Sprintf(textMyIDFmt, sender.ID, c.Chat().ID, username), tele.ModeHTML)
}

func (r *Router) handleHelp(c tele.Context) error {
	text := textHelp
	if ok, err := r.isAdmin(c); err == nil && ok {
		text += textHelpAdmin
	}
	return c.Reply(text, tele.ModeHTML)
}

// --- Setup dialog ---

func (r *Router) handleSetup(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	chatID := c.Chat().ID

	chat, err := r.bot.ChatByID(chatID)
	if err != nil {
		r.log.Error("chat info failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textCantCheckChat)
	}
	if !chat.IsForum {
		return c.Reply(textForumOnly)
	}

	r.startSession(chatID)
	return c.Reply(textAskCloseTime)
}

// handleText feeds free-form messages into a pending setup session, if any.
func (r *Router) handleText(c tele.Context) error {
	chatID := c.Chat().ID
	s := r.session(chatID)
	if s == nil {
		return nil
	}

	clock, err := domain.ParseClock(strings.TrimSpace(c.Text()))
	if err != nil {
		// Keep the session alive; the user just retries.
		return c.Reply(textBadTime)
	}

	if s.closeAt == nil {
		s.closeAt = &clock
		return c.Reply(fmt.Sprintf(textAskOpenTime, clock.String()))
	}
	return r.finishSetup(c, chatID, *s.closeAt, clock)
}

func (r *Router) finishSetup(c tele.Context, chatID int64, closeAt, openAt domain.Clock) error {
	rec, _, err := r.store.Chat(chatID)
	if err != nil {
		r.log.Error("load chat failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	rec.Enabled = true
	rec.CloseTime = closeAt.String()
	rec.OpenTime = openAt.String()
	if err := r.store.PutChat(chatID, rec); err != nil {
		r.log.Error("save chat failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}

	if err := r.mgr.Install(chatID, rec.CloseTime, rec.OpenTime); err != nil {
		// Cannot happen for clocks we just parsed, but surface it anyway.
		r.log.Error("install failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	r.clearSession(chatID)

	return c.Reply(
		fmt.Sprintf(textSetupDoneFmt, rec.CloseTime, rec.OpenTime, r.tzName, len(rec.TopicIDs)),
		tele.ModeHTML,
	)
}

// --- Status and topics ---

func (r *Router) handleStatus(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	chatID := c.Chat().ID

	rec, ok, err := r.store.Chat(chatID)
	if err != nil {
		r.log.Error("load chat failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	if !ok {
		return c.Reply(textNotConfigured)
	}

	enabled := textStatusDisabled
	if rec.Enabled {
		enabled = textStatusEnabled
	}
	text := fmt.Sprintf(textStatusFmt,
		enabled,
		orUnset(rec.CloseTime), orUnset(rec.OpenTime),
		r.tzName,
		len(rec.TopicIDs),
	)
	text += r.lastRuns(chatID)
	return c.Reply(text, tele.ModeHTML)
}

// lastRuns renders the journal tail for /status; empty when nothing ran yet.
func (r *Router) lastRuns(chatID int64) string {
	if r.journal == nil {
		return ""
	}
	ctx := context.Background()
	var b strings.Builder
	for _, action := range []string{topics.ActionClose, topics.ActionOpen} {
		run, err := r.journal.LastRun(ctx, chatID, action)
		if err != nil {
			r.log.Warn("journal read failed", zap.Int64("chat", chatID), zap.Error(err))
			return ""
		}
		if run == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n🗒 Last %s: %s (%d topics, %d failed)",
			run.Action, run.At.Format("2006-01-02 15:04 UTC"), run.Topics, run.Failed))
	}
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

func (r *Router) handleTopics(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	chatID := c.Chat().ID

	rec, ok, err := r.store.Chat(chatID)
	if err != nil {
		r.log.Error("load chat failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	if !ok || (len(rec.Topics) == 0 && len(rec.TopicIDs) == 0) {
		return c.Reply(textNoTopics)
	}

	var b strings.Builder
	if len(rec.Topics) > 0 {
		b.WriteString(fmt.Sprintf("📋 <b>Known topics (%d):</b>\n", len(rec.Topics)))
		ids := make([]string, 0, len(rec.Topics))
		for id := range rec.Topics {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			b.WriteString(fmt.Sprintf("• %s (ID: <code>%s</code>)\n", rec.Topics[id], id))
		}
	}
	if len(rec.TopicIDs) > 0 {
		b.WriteString(fmt.Sprintf("\n🔒 <b>Registered for sweeps (%d):</b>\n", len(rec.TopicIDs)))
		for _, id := range rec.TopicIDs {
			b.WriteString(fmt.Sprintf("• <code>%d</code>\n", id))
		}
	}
	b.WriteString("\nℹ️ Only registered topics (plus general) are closed and opened on the schedule.")
	return c.Reply(b.String(), tele.ModeHTML)
}

func (r *Router) handleRegisterTopic(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	threadID := c.Message().ThreadID
	if threadID == 0 {
		return c.Reply(textInsideTopicOnly)
	}
	chatID := c.Chat().ID
	if err := r.store.RegisterTopic(chatID, threadID); err != nil {
		r.log.Error("register topic failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	return c.Reply(fmt.Sprintf(textTopicRegisteredFmt, threadID))
}

func (r *Router) handleDelTopic(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	threadID := c.Message().ThreadID
	if threadID == 0 {
		return c.Reply(textInsideTopicOnly)
	}
	chatID := c.Chat().ID
	if err := r.store.UnregisterTopic(chatID, threadID); err != nil {
		r.log.Error("unregister topic failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	return c.Reply(fmt.Sprintf(textTopicRemovedFmt, threadID))
}

// --- Schedule control ---

func (r *Router) handleDisable(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	chatID := c.Chat().ID

	rec, ok, err := r.store.Chat(chatID)
	if err != nil {
		r.log.Error("load chat failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	if !ok {
		return c.Reply(textWasNotEnabled)
	}

	rec.Enabled = false
	if err := r.store.PutChat(chatID, rec); err != nil {
		r.log.Error("save chat failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	r.mgr.Uninstall(chatID)
	return c.Reply(textDisabled)
}

func (r *Router) handleCloseNow(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	sw, err := r.svc.Close(context.Background(), c.Chat().ID)
	if err != nil {
		return c.Reply(fmt.Sprintf(textSweepFailedFmt, err))
	}
	return c.Reply(fmt.Sprintf(textClosedNowFmt, sw.Attempted))
}

func (r *Router) handleOpenNow(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	sw, err := r.svc.Open(context.Background(), c.Chat().ID)
	if err != nil {
		return c.Reply(fmt.Sprintf(textSweepFailedFmt, err))
	}
	return c.Reply(fmt.Sprintf(textOpenedNowFmt, sw.Attempted))
}

// historyLimit caps how many journal rows /history renders.
const historyLimit = 10

func (r *Router) handleHistory(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	if r.journal == nil {
		return c.Reply(textNoHistory)
	}
	chatID := c.Chat().ID

	runs, err := r.journal.Recent(context.Background(), chatID, historyLimit)
	if err != nil {
		r.log.Error("journal read failed", zap.Int64("chat", chatID), zap.Error(err))
		return c.Reply(textStoreError)
	}
	if len(runs) == 0 {
		return c.Reply(textNoHistory)
	}

	var b strings.Builder
	b.WriteString(textHistoryTitle)
	for _, run := range runs {
		b.WriteString(fmt.Sprintf("• %s — %s, %d topics, %d failed\n",
			run.At.Format("2006-01-02 15:04 UTC"), run.Action, run.Topics, run.Failed))
	}
	return c.Reply(b.String(), tele.ModeHTML)
}

// --- Admin management ---

func (r *Router) handleAddAdmin(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) == 0 {
		return c.Reply(textAddAdminUsage)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return c.Reply(textBadUserID)
	}

	switch err := r.store.AddAdmin(id); {
	case errors.Is(err, store.ErrAlreadyAdmin):
		return c.Reply(textAlreadyAdmin)
	case err != nil:
		r.log.Error("add admin failed", zap.Int64("user", id), zap.Error(err))
		return c.Reply(textStoreError)
	}
	return c.Reply(fmt.Sprintf(textAdminAddedFmt, id), tele.ModeHTML)
}

func (r *Router) handleDelAdmin(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) == 0 {
		return c.Reply(textDelAdminUsage)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return c.Reply(textBadUserID)
	}

	switch err := r.store.RemoveAdmin(id); {
	case errors.Is(err, store.ErrNotAdmin):
		return c.Reply(textNotAnAdmin)
	case errors.Is(err, store.ErrLastAdmin):
		return c.Reply(textLastAdmin)
	case err != nil:
		r.log.Error("remove admin failed", zap.Int64("user", id), zap.Error(err))
		return c.Reply(textStoreError)
	}
	return c.Reply(fmt.Sprintf(textAdminGoneFmt, id), tele.ModeHTML)
}

func (r *Router) handleAdmins(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	admins, err := r.store.Admins()
	if err != nil {
		r.log.Error("list admins failed", zap.Error(err))
		return c.Reply(textStoreError)
	}
	lines := make([]string, 0, len(admins))
	for _, id := range admins {
		lines = append(lines, fmt.Sprintf("• <code>%d</code>", id))
	}
	return c.Reply(textAdminsTitle+strings.Join(lines, "\n"), tele.ModeHTML)
}

func (r *Router) handleResetData(c tele.Context) error {
	if !r.requireAdmin(c) {
		return nil
	}
	args := c.Args()
	if len(args) == 0 {
		return c.Reply(textResetWarn)
	}
	if len(args) != 1 || args[0] != "YES" {
		return c.Reply(textResetBadConfirm)
	}

	if err := r.store.ResetAll(); err != nil {
		r.log.Error("reset failed", zap.Error(err))
		return c.Reply(textStoreError)
	}
	r.cron.Clear()
	r.log.Warn("all bot data wiped", zap.Int64("by", c.Sender().ID))
	return c.Reply(textResetDone)
}

// --- Topic discovery events ---

func (r *Router) handleTopicCreated(c tele.Context) error {
	m := c.Message()
	if m == nil || m.TopicCreated == nil {
		return nil
	}
	chatID := c.Chat().ID
	if err := r.store.AddDiscoveredTopic(chatID, m.ThreadID, m.TopicCreated.Name); err != nil {
		r.log.Error("record topic failed", zap.Int64("chat", chatID), zap.Error(err))
		return nil
	}
	r.log.Info("topic discovered",
		zap.Int64("chat", chatID),
		zap.Int("topic", m.ThreadID),
		zap.String("name", m.TopicCreated.Name),
	)
	return nil
}

func (r *Router) handleTopicEdited(c tele.Context) error {
	m := c.Message()
	if m == nil || m.TopicEdited == nil || m.TopicEdited.Name == "" {
		return nil
	}
	chatID := c.Chat().ID
	if err := r.store.AddDiscoveredTopic(chatID, m.ThreadID, m.TopicEdited.Name); err != nil {
		r.log.Error("record topic failed", zap.Int64("chat", chatID), zap.Error(err))
		return nil
	}
	r.log.Info("topic renamed",
		zap.Int64("chat", chatID),
		zap.Int("topic", m.ThreadID),
		zap.String("name", m.TopicEdited.Name),
	)
	return nil
}
