package store

// Document is the whole persisted configuration file.
// A nil Admins slice means the list was never initialized; the first
// Admins() call seeds it from the bootstrap list.
type Document struct {
	Admins []int64                `json:"admins,omitempty"`
	Chats  map[string]*ChatRecord `json:"chats"`
}

// ChatRecord is the per-chat configuration.
// Topics maps topic id to display name and is filled by auto-discovery;
// it is informational only. TopicIDs holds manually registered topics and
// is the only set that drives open/close sweeps.
type ChatRecord struct {
	Enabled   bool              `json:"enabled"`
	CloseTime string            `json:"close_time,omitempty"`
	OpenTime  string            `json:"open_time,omitempty"`
	Topics    map[string]string `json:"topics,omitempty"`
	TopicIDs  []int             `json:"topic_ids,omitempty"`
}
