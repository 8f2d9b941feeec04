package storage

import (
	"strings"
	"time"
)

// Document statuses with special meaning. Other values are stored as given.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// UserRecord is an account that can author documents and open reports.
type UserRecord struct {
	ID           string // UUID
	Login        string // Unique login name
	DisplayName  string
	Capabilities []string
	CreatedAt    time.Time
}

// DocumentRecord is one stored document.
type DocumentRecord struct {
	ID         string // UUID
	Type       string // post, page, ...
	Status     string // publish, draft, ...
	Title      string // Stored as written; may contain HTML entities
	Body       string // Serialized block grammar
	Permalink  string
	AuthorID   string // Empty when the document has no author
	ModifiedBy string // User ID of the last editor; empty when unknown
	Source     string // Draft source name; empty when not imported
	RelPath    string // Path inside the draft source
	Hash       string // SHA256 hex of the imported file
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Filled by queries from the users table.
	AuthorName string
	EditorName string
}

func joinCapabilities(caps []string) string {
	return strings.Join(caps, ",")
}

func splitCapabilities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	caps := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			caps = append(caps, p)
		}
	}
	return caps
}
