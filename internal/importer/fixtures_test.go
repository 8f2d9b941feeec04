package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editor-note/internal/blocks"
	"editor-note/internal/notes"
	"editor-note/internal/storage"
)

const fixtureYAML = `
users:
  - login: chief
    name: Chief Editor
    capabilities: [edit_posts, edit_others_posts]
  - login: ada
    name: Ada Lovelace
    capabilities: [edit_posts]
documents:
  - id: doc-1
    title: Launch
    type: post
    status: publish
    author: ada
    modified_by: chief
    modified: 2024-01-02T03:04:05Z
    body: |
      <!-- wp:paragraph --><p>Hello</p><!-- /wp:paragraph -->
    notes:
      - Check this fact
      - Rewrite intro
  - id: doc-2
    title: Orphan
    author: ghost
`

func TestPipeline_LoadFixtures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stats, err := env.pipeline.LoadFixtures(ctx, strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	assert.Equal(t, FixtureStats{Users: 2, Documents: 2}, stats)

	chief, err := env.users.GetByLogin(ctx, "chief")
	require.NoError(t, err)
	assert.Equal(t, []string{"edit_posts", "edit_others_posts"}, chief.Capabilities)

	ghost, err := env.users.GetByLogin(ctx, "ghost")
	require.NoError(t, err, "unknown logins are created")
	assert.Empty(t, ghost.Capabilities)

	doc, err := env.documents.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.AuthorName)
	assert.Equal(t, "Chief Editor", doc.EditorName)
	assert.True(t, doc.ModifiedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, []string{"Check this fact", "Rewrite intro"}, notes.Extract(blocks.Parse(doc.Body)))

	docs, err := env.documents.Query(ctx, storage.DocumentQuery{Contains: blocks.NoteMarker})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)

	// Loading again updates in place.
	stats, err = env.pipeline.LoadFixtures(ctx, strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Documents)
	all, err := env.documents.Query(ctx, storage.DocumentQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPipeline_LoadFixtures_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.pipeline.LoadFixtures(context.Background(), strings.NewReader("users: [\n"))
	assert.Error(t, err)

	_, err = env.pipeline.LoadFixtures(context.Background(), strings.NewReader("documents:\n  - title: x\n    colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")

	stats, err := env.pipeline.LoadFixtures(context.Background(), strings.NewReader(""))
	assert.NoError(t, err)
	assert.Equal(t, FixtureStats{}, stats)
}
