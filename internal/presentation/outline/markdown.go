// Package outline renders tree projections into text formats.
package outline

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Markdown renders a tree as nested markdown bullets. Untitled items fall
// back to their ID so the structure stays legible. Notes are emitted as
// indented blockquote lines under their item.
func Markdown(tree *domain.Tree) string {
	var sb strings.Builder
	writeNode(&sb, tree, 0)
	return sb.String()
}

// MarkdownForest renders several roots separated by blank lines.
func MarkdownForest(trees []*domain.Tree) string {
	parts := make([]string, 0, len(trees))
	for _, tree := range trees {
		parts = append(parts, Markdown(tree))
	}
	return strings.Join(parts, "\n")
}

func writeNode(sb *strings.Builder, node *domain.Tree, depth int) {
	indent := strings.Repeat("  ", depth)

	label := node.Title
	if label == "" {
		label = node.ID
	}
	fmt.Fprintf(sb, "%s- %s\n", indent, label)

	if node.Note != "" {
		for _, line := range strings.Split(node.Note, "\n") {
			fmt.Fprintf(sb, "%s  > %s\n", indent, line)
		}
	}

	for _, child := range node.Children {
		writeNode(sb, child, depth+1)
	}
}
