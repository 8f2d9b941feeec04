package notes

import (
	"reflect"
	"strings"
	"testing"

	"editor-note/internal/blocks"
)

func note(text string) blocks.Block {
	return &blocks.NoteBlock{Text: text}
}

func group(children ...blocks.Block) blocks.Block {
	return &blocks.ContainerBlock{Name: "core/group", Children: children}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		tree []blocks.Block
		want []string
	}{
		{
			name: "nil tree",
			tree: nil,
			want: []string{},
		},
		{
			name: "empty tree",
			tree: []blocks.Block{},
			want: []string{},
		},
		{
			name: "container with empty children",
			tree: []blocks.Block{group()},
			want: []string{},
		},
		{
			name: "note and nested note",
			tree: []blocks.Block{
				note("Check this fact"),
				group(note("Rewrite intro")),
			},
			want: []string{"Check this fact", "Rewrite intro"},
		},
		{
			name: "duplicates are kept",
			tree: []blocks.Block{group(note("Fix typo"), note("Fix typo"))},
			want: []string{"Fix typo", "Fix typo"},
		},
		{
			name: "empty notes are skipped",
			tree: []blocks.Block{note(""), note("kept"), group(note(""))},
			want: []string{"kept"},
		},
		{
			name: "pre-order across siblings and depth",
			tree: []blocks.Block{
				group(note("1"), group(note("2"), note("3")), note("4")),
				note("5"),
				group(group(group(note("6")))),
			},
			want: []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name: "nil entries are ignored",
			tree: []blocks.Block{nil, note("a")},
			want: []string{"a"},
		},
		{
			name: "text is returned unescaped",
			tree: []blocks.Block{note("a & <b>")},
			want: []string{"a & <b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.tree)
			if got == nil {
				t.Fatal("Extract() returned nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract_DepthDoesNotMatter(t *testing.T) {
	for _, depth := range []int{0, 1, 5, 50000} {
		var b blocks.Block = note("deep")
		for i := 0; i < depth; i++ {
			b = group(b)
		}
		got := Extract([]blocks.Block{b})
		if !reflect.DeepEqual(got, []string{"deep"}) {
			t.Errorf("Extract() at depth %d = %v, want [deep]", depth, got)
		}
	}
}

func TestExtract_FromSerializedBody(t *testing.T) {
	body := strings.Join([]string{
		blocks.SerializeNote("Check this fact"),
		`<!-- wp:group --><div class="wp-block-group">`,
		`<!-- wp:paragraph --><p>Body text</p><!-- /wp:paragraph -->`,
		blocks.SerializeNote("Rewrite intro"),
		`</div><!-- /wp:group -->`,
	}, "\n")

	got := Extract(blocks.Parse(body))
	want := []string{"Check this fact", "Rewrite intro"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract(Parse()) = %v, want %v", got, want)
	}
}

func TestCount(t *testing.T) {
	tree := []blocks.Block{note("a"), group(note("b"), note("")), note("a")}
	if got := Count(tree); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}
