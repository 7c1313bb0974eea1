package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/No1se-pi/moder-bot/internal/journal"
	"github.com/No1se-pi/moder-bot/internal/store"
	"github.com/No1se-pi/moder-bot/internal/topics"
)

// fakeContext stubs the slice of tele.Context the handlers touch and records
// replies. Embedding the interface leaves the rest unimplemented; a handler
// reaching for more than it should panics the test.
type fakeContext struct {
	tele.Context
	sender  *tele.User
	chat    *tele.Chat
	args    []string
	replies []string
}

func (f *fakeContext) Sender() *tele.User { return f.sender }
func (f *fakeContext) Chat() *tele.Chat   { return f.chat }
func (f *fakeContext) Args() []string     { return f.args }

func (f *fakeContext) Reply(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.replies = append(f.replies, s)
	}
	return nil
}

func newTestRouter(t *testing.T, jr *journal.Journal) (*Router, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "config.json"), []int64{1})
	return NewRouter(nil, zap.NewNop(), st, nil, nil, nil, jr, "Europe/Moscow"), st
}

func adminCtx(args ...string) *fakeContext {
	return &fakeContext{sender: &tele.User{ID: 1}, chat: &tele.Chat{ID: 100}, args: args}
}

func strangerCtx(args ...string) *fakeContext {
	return &fakeContext{sender: &tele.User{ID: 999}, chat: &tele.Chat{ID: 100}, args: args}
}

func TestAddAdmin_NonAdminIsRejected(t *testing.T) {
	r, st := newTestRouter(t, nil)

	c := strangerCtx("5")
	if err := r.handleAddAdmin(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c.replies) != 1 || c.replies[0] != textNoPermission {
		t.Fatalf("replies = %v", c.replies)
	}

	admins, err := st.Admins()
	if err != nil {
		t.Fatalf("admins: %v", err)
	}
	if !slices.Equal(admins, []int64{1}) {
		t.Fatalf("admin list changed: %v", admins)
	}
}

func TestAddAdmin_AdminAddsExactlyOnce(t *testing.T) {
	r, st := newTestRouter(t, nil)

	c := adminCtx("5")
	if err := r.handleAddAdmin(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c.replies) != 1 || c.replies[0] != fmt.Sprintf(textAdminAddedFmt, 5) {
		t.Fatalf("replies = %v", c.replies)
	}

	// Same call again: rejected as a duplicate, 5 stays listed once.
	c2 := adminCtx("5")
	if err := r.handleAddAdmin(c2); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c2.replies) != 1 || c2.replies[0] != textAlreadyAdmin {
		t.Fatalf("replies = %v", c2.replies)
	}

	admins, _ := st.Admins()
	if !slices.Equal(admins, []int64{1, 5}) {
		t.Fatalf("admins = %v", admins)
	}
}

func TestDelAdmin_NonAdminIsRejected(t *testing.T) {
	r, st := newTestRouter(t, nil)
	if err := st.AddAdmin(5); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	c := strangerCtx("5")
	if err := r.handleDelAdmin(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c.replies) != 1 || c.replies[0] != textNoPermission {
		t.Fatalf("replies = %v", c.replies)
	}

	admins, _ := st.Admins()
	if !slices.Equal(admins, []int64{1, 5}) {
		t.Fatalf("admin list changed: %v", admins)
	}
}

func TestHistory_ShowsRecentRuns(t *testing.T) {
	jr, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = jr.Close() })

	base := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	for i, action := range []string{topics.ActionClose, topics.ActionOpen} {
		run := journal.Run{ChatID: 100, Action: action, Topics: 2, At: base.Add(time.Duration(i) * time.Hour)}
		if err := jr.Record(context.Background(), run); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	r, _ := newTestRouter(t, jr)

	c := adminCtx()
	if err := r.handleHistory(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c.replies) != 1 {
		t.Fatalf("replies = %v", c.replies)
	}
	reply := c.replies[0]
	if !strings.Contains(reply, topics.ActionClose) || !strings.Contains(reply, topics.ActionOpen) {
		t.Fatalf("reply = %q", reply)
	}
	// Newest first: the open run at 23:00 comes before the close run.
	if strings.Index(reply, topics.ActionOpen) > strings.Index(reply, topics.ActionClose) {
		t.Fatalf("runs out of order: %q", reply)
	}

	// A stranger gets the permission reply and no history.
	c2 := strangerCtx()
	if err := r.handleHistory(c2); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c2.replies) != 1 || c2.replies[0] != textNoPermission {
		t.Fatalf("replies = %v", c2.replies)
	}
}
