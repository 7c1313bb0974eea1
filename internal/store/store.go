package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
)

var (
	ErrAlreadyAdmin = errors.New("already an admin")
	ErrNotAdmin     = errors.New("not an admin")
	ErrLastAdmin    = errors.New("cannot remove the last admin")
	ErrNoAdmins     = errors.New("admin list cannot be empty")
)

// Store persists the whole configuration as a single JSON document.
// Every operation is load-mutate-save under one mutex; there is no caching,
// so a fresh process sees whatever is on disk. Saves go through a temp file
// and rename, which keeps a crash from leaving a torn document behind.
type Store struct {
	path string
	seed []int64 // bootstrap admin list from the environment

	mu sync.Mutex
}

// New creates a store backed by the JSON file at path. seedAdmins is used to
// initialize the admin list on first access and to restore it on ResetAll.
func New(path string, seedAdmins []int64) *Store {
	return &Store{path: path, seed: slices.Clone(seedAdmins)}
}

// load reads the document from disk. A missing file yields an empty document.
// Callers must hold s.mu.
func (s *Store) load() (Document, error) {
	doc := Document{Chats: map[string]*ChatRecord{}}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode config: %w", err)
	}
	if doc.Chats == nil {
		doc.Chats = map[string]*ChatRecord{}
	}
	return doc, nil
}

// save overwrites the document on disk atomically. Callers must hold s.mu.
func (s *Store) save(doc Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Chat returns the stored record for a chat, or false if the chat is not
// configured.
func (s *Store) Chat(chatID int64) (ChatRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return ChatRecord{}, false, err
	}
	rec, ok := doc.Chats[chatKey(chatID)]
	if !ok {
		return ChatRecord{}, false, nil
	}
	return *rec, true, nil
}

// PutChat upserts the full record for a chat.
func (s *Store) PutChat(chatID int64, rec ChatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Chats[chatKey(chatID)] = &rec
	return s.save(doc)
}

// AllChats returns every stored chat record keyed by chat id.
func (s *Store) AllChats() (map[int64]ChatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]ChatRecord, len(doc.Chats))
	for key, rec := range doc.Chats {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad chat key %q: %w", key, err)
		}
		out[id] = *rec
	}
	return out, nil
}

// Admins returns the global admin list. On first access, when the document
// has no admin list yet, it is seeded from the bootstrap list and persisted
// immediately.
func (s *Store) Admins() ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if doc.Admins == nil {
		doc.Admins = slices.Clone(s.seed)
		if err := s.save(doc); err != nil {
			return nil, err
		}
	}
	return slices.Clone(doc.Admins), nil
}

// IsAdmin reports whether the user id is in the global admin list.
func (s *Store) IsAdmin(userID int64) (bool, error) {
	admins, err := s.Admins()
	if err != nil {
		return false, err
	}
	return slices.Contains(admins, userID), nil
}

// SetAdmins replaces the global admin list. An empty list is rejected: the
// document would lose its admins key and the next read would silently
// re-seed, so the list must stay non-empty once initialized.
func (s *Store) SetAdmins(admins []int64) error {
	if len(admins) == 0 {
		return ErrNoAdmins
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Admins = slices.Clone(admins)
	return s.save(doc)
}

// AddAdmin appends a user to the admin list. Duplicates are rejected.
func (s *Store) AddAdmin(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.Admins == nil {
		doc.Admins = slices.Clone(s.seed)
	}
	if slices.Contains(doc.Admins, userID) {
		return ErrAlreadyAdmin
	}
	doc.Admins = append(doc.Admins, userID)
	return s.save(doc)
}

// RemoveAdmin removes a user from the admin list. The last remaining admin
// cannot be removed.
func (s *Store) RemoveAdmin(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.Admins == nil {
		doc.Admins = slices.Clone(s.seed)
	}
	i := slices.Index(doc.Admins, userID)
	if i < 0 {
		return ErrNotAdmin
	}
	if len(doc.Admins) == 1 {
		return ErrLastAdmin
	}
	doc.Admins = slices.Delete(doc.Admins, i, i+1)
	return s.save(doc)
}

// ResetAll wipes the whole document: all chats gone, admins restored to the
// seed list. Irreversible.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(Document{
		Admins: slices.Clone(s.seed),
		Chats:  map[string]*ChatRecord{},
	})
}
