package outline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/arbor/internal/presentation/outline"
	"github.com/aretw0/arbor/pkg/domain"
)

func TestMarkdown(t *testing.T) {
	tree := &domain.Tree{
		ID:    "r",
		Title: "Root",
		Children: []*domain.Tree{
			{
				ID:    "a",
				Title: "Alpha",
				Note:  "line one\nline two",
			},
			{
				ID: "b", // untitled, falls back to ID
			},
		},
	}

	got := outline.Markdown(tree)
	want := `- Root
  - Alpha
    > line one
    > line two
  - b
`
	assert.Equal(t, want, got)
}

func TestMarkdownForest(t *testing.T) {
	forest := []*domain.Tree{
		{ID: "r", Title: "One"},
		{ID: "s", Title: "Two"},
	}
	got := outline.MarkdownForest(forest)
	assert.Equal(t, "- One\n\n- Two\n", got)
}
