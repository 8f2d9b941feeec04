package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
)

// newTestDB opens a migrated database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestUserRepo_GetByLogin(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByLogin(ctx, "nobody"); err != ErrNotFound {
		t.Errorf("GetByLogin() error = %v, want ErrNotFound", err)
	}

	user := &UserRecord{Login: "ed", DisplayName: "Ed Itor", Capabilities: []string{"edit_posts", "edit_others_posts"}}
	if err := repo.Upsert(ctx, user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.GetByLogin(ctx, "ed")
	if err != nil {
		t.Fatalf("GetByLogin() error = %v", err)
	}
	if got.ID != user.ID || got.DisplayName != "Ed Itor" {
		t.Errorf("GetByLogin() = %+v, want ID %s and display name Ed Itor", got, user.ID)
	}
	if !reflect.DeepEqual(got.Capabilities, []string{"edit_posts", "edit_others_posts"}) {
		t.Errorf("GetByLogin() capabilities = %v", got.Capabilities)
	}
}

func TestUserRepo_Upsert_PreservesID(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	first := &UserRecord{Login: "ed", DisplayName: "Ed"}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	second := &UserRecord{Login: "ed", DisplayName: "Edwina", Capabilities: []string{"edit_others_posts"}}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Upsert() ID = %s, want preserved %s", second.ID, first.ID)
	}
	got, err := repo.GetByLogin(ctx, "ed")
	if err != nil {
		t.Fatalf("GetByLogin() error = %v", err)
	}
	if got.DisplayName != "Edwina" || len(got.Capabilities) != 1 {
		t.Errorf("GetByLogin() after update = %+v", got)
	}
}

func TestUserRepo_Upsert_EmptyLogin(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	if err := repo.Upsert(context.Background(), &UserRecord{}); err == nil {
		t.Error("Upsert() with empty login should fail")
	}
}

func TestUserRepo_GetOrCreateByLogin(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	created, err := repo.GetOrCreateByLogin(ctx, "writer", "")
	if err != nil {
		t.Fatalf("GetOrCreateByLogin() error = %v", err)
	}
	if created.ID == "" || created.DisplayName != "writer" || len(created.Capabilities) != 0 {
		t.Errorf("GetOrCreateByLogin() created = %+v", created)
	}

	again, err := repo.GetOrCreateByLogin(ctx, "writer", "Other Name")
	if err != nil {
		t.Fatalf("GetOrCreateByLogin() second error = %v", err)
	}
	if again.ID != created.ID || again.DisplayName != "writer" {
		t.Errorf("GetOrCreateByLogin() should return the existing user, got %+v", again)
	}
}

func TestSplitCapabilities(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "a", want: []string{"a"}},
		{in: "a, b,,c ", want: []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		if got := splitCapabilities(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCapabilities(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
