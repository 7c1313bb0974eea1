package telegram

import (
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/No1se-pi/moder-bot/internal/domain"
	"github.com/No1se-pi/moder-bot/internal/journal"
	"github.com/No1se-pi/moder-bot/internal/schedule"
	"github.com/No1se-pi/moder-bot/internal/scheduler"
	"github.com/No1se-pi/moder-bot/internal/store"
	"github.com/No1se-pi/moder-bot/internal/topics"
)

// setupTTL bounds how long a /setup dialog may sit between inputs.
const setupTTL = 5 * time.Minute

// setupSession is the scratch state of a two-step /setup dialog.
// closeAt nil means the close time is still awaited.
type setupSession struct {
	closeAt *domain.Clock
	expires time.Time
}

// Router wires Telegram updates to handlers and holds the short-lived
// per-chat setup sessions.
type Router struct {
	bot     *tele.Bot
	log     *zap.Logger
	store   *store.Store
	svc     *topics.Service
	mgr     *schedule.Manager
	cron    *scheduler.Scheduler
	journal *journal.Journal
	tzName  string

	mu       sync.Mutex
	sessions map[int64]*setupSession
}

func NewRouter(
	bot *tele.Bot,
	log *zap.Logger,
	st *store.Store,
	svc *topics.Service,
	mgr *schedule.Manager,
	cron *scheduler.Scheduler,
	jr *journal.Journal,
	tzName string,
) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		store:    st,
		svc:      svc,
		mgr:      mgr,
		cron:     cron,
		journal:  jr,
		tzName:   tzName,
		sessions: make(map[int64]*setupSession),
	}
}

// Register attaches all command and event handlers to the bot.
func (r *Router) Register() {
	r.bot.Handle("/start", r.handleStart)
	r.bot.Handle("/myid", r.handleMyID)
	r.bot.Handle("/help", r.handleHelp)

	r.bot.Handle("/setup", r.handleSetup)
	r.bot.Handle("/status", r.handleStatus)
	r.bot.Handle("/topics", r.handleTopics)
	r.bot.Handle("/disable", r.handleDisable)
	r.bot.Handle("/closenow", r.handleCloseNow)
	r.bot.Handle("/opennow", r.handleOpenNow)
	r.bot.Handle("/history", r.handleHistory)

	r.bot.Handle("/register_topic", r.handleRegisterTopic)
	r.bot.Handle("/del_topic", r.handleDelTopic)

	r.bot.Handle("/addadmin", r.handleAddAdmin)
	r.bot.Handle("/deladmin", r.handleDelAdmin)
	r.bot.Handle("/admins", r.handleAdmins)
	r.bot.Handle("/resetdata", r.handleResetData)

	r.bot.Handle(tele.OnTopicCreated, r.handleTopicCreated)
	r.bot.Handle(tele.OnTopicEdited, r.handleTopicEdited)
	r.bot.Handle(tele.OnText, r.handleText)
}

// session returns the live setup session for a chat, dropping expired ones.
func (r *Router) session(chatID int64) *setupSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[chatID]
	if !ok {
		return nil
	}
	if time.Now().After(s.expires) {
		delete(r.sessions, chatID)
		return nil
	}
	return s
}

func (r *Router) startSession(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = &setupSession{expires: time.Now().Add(setupTTL)}
}

func (r *Router) clearSession(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// isAdmin checks the sender against the global admin list.
func (r *Router) isAdmin(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}
	return r.store.IsAdmin(sender.ID)
}

// requireAdmin replies and returns false when the sender may not proceed.
func (r *Router) requireAdmin(c tele.Context) bool {
	ok, err := r.isAdmin(c)
	if err != nil {
		r.log.Error("admin check failed", zap.Error(err))
		_ = c.Reply(textStoreError)
		return false
	}
	if !ok {
		_ = c.Reply(textNoPermission)
		return false
	}
	return true
}
