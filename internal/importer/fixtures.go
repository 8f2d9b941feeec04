package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"editor-note/internal/blocks"
	"editor-note/internal/contextutil"
	"editor-note/internal/storage"
)

// Fixtures is a YAML file of users and documents.
type Fixtures struct {
	Users     []FixtureUser     `yaml:"users"`
	Documents []FixtureDocument `yaml:"documents"`
}

// FixtureUser is one user in a fixtures file.
type FixtureUser struct {
	Login        string   `yaml:"login"`
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
}

// FixtureDocument is one document in a fixtures file. Notes are appended
// to Body as editor note blocks.
type FixtureDocument struct {
	ID         string    `yaml:"id"`
	Type       string    `yaml:"type"`
	Status     string    `yaml:"status"`
	Title      string    `yaml:"title"`
	Permalink  string    `yaml:"permalink"`
	Author     string    `yaml:"author"`
	ModifiedBy string    `yaml:"modified_by"`
	Modified   time.Time `yaml:"modified"`
	Body       string    `yaml:"body"`
	Notes      []string  `yaml:"notes"`
}

// FixtureStats counts what LoadFixtures wrote.
type FixtureStats struct {
	Users     int
	Documents int
}

// LoadFixtures decodes YAML fixtures from r and upserts them. Users are
// written first so documents can refer to them by login; unknown logins
// are created without capabilities.
func (p *Pipeline) LoadFixtures(ctx context.Context, r io.Reader) (FixtureStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var stats FixtureStats

	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return stats, fmt.Errorf("decode fixtures: %w", err)
	}

	ids := make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		rec := &storage.UserRecord{Login: u.Login, DisplayName: u.Name, Capabilities: u.Capabilities}
		if rec.DisplayName == "" {
			rec.DisplayName = u.Login
		}
		if err := p.users.Upsert(ctx, rec); err != nil {
			return stats, fmt.Errorf("fixture user %q: %w", u.Login, err)
		}
		ids[u.Login] = rec.ID
		stats.Users++
	}

	resolve := func(login string) (string, error) {
		if login == "" {
			return "", nil
		}
		if id, ok := ids[login]; ok {
			return id, nil
		}
		u, err := p.users.GetOrCreateByLogin(ctx, login, "")
		if err != nil {
			return "", err
		}
		ids[login] = u.ID
		return u.ID, nil
	}

	for i, d := range fx.Documents {
		authorID, err := resolve(d.Author)
		if err != nil {
			return stats, fmt.Errorf("fixture document %d author: %w", i, err)
		}
		editorID, err := resolve(d.ModifiedBy)
		if err != nil {
			return stats, fmt.Errorf("fixture document %d modified_by: %w", i, err)
		}

		var body strings.Builder
		body.WriteString(d.Body)
		for _, note := range d.Notes {
			if body.Len() > 0 {
				body.WriteString("\n\n")
			}
			body.WriteString(blocks.SerializeNote(note))
		}

		doc := &storage.DocumentRecord{
			ID:         d.ID,
			Type:       d.Type,
			Status:     d.Status,
			Title:      d.Title,
			Body:       body.String(),
			Permalink:  d.Permalink,
			AuthorID:   authorID,
			ModifiedBy: editorID,
			ModifiedAt: d.Modified,
		}
		if err := p.documents.Upsert(ctx, doc); err != nil {
			return stats, fmt.Errorf("fixture document %d: %w", i, err)
		}
		stats.Documents++
	}

	logger.InfoContext(ctx, "fixtures loaded", "users", stats.Users, "documents", stats.Documents)
	return stats, nil
}
