package doctree

import (
	"fmt"
	"strconv"
	"strings"
)

// DocTree is the nested view of an extracted outline.
type DocTree struct {
	Title    string     // Document title (may be empty)
	Children []*DocNode // Top-level headings
}

// DocNode is a heading with the headings nested beneath it.
type DocNode struct {
	Title    string     // Heading text
	Level    int        // 1..4
	Page     int        // 1-based page number
	Children []*DocNode // Subheadings
}

// LevelNumber parses an outline level label ("H1".."H4") into its depth.
// Unknown labels map to 0.
func LevelNumber(level string) int {
	if len(level) < 2 || (level[0] != 'H' && level[0] != 'h') {
		return 0
	}
	n, err := strconv.Atoi(level[1:])
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// BuildTree nests the flat outline of a Result by heading level.
func BuildTree(res Result) *DocTree {
	tree := &DocTree{Title: res.Title}

	type stackEntry struct {
		node  *DocNode
		level int
	}

	// Root is level 0; every heading nests under it.
	root := &DocNode{Title: res.Title}
	stack := []stackEntry{{node: root, level: 0}}

	for _, e := range res.Outline {
		level := LevelNumber(e.Level)
		if level == 0 {
			level = 1
		}
		node := &DocNode{Title: e.Text, Level: level, Page: e.Page}

		// Pop until the top of the stack is shallower than this heading.
		for len(stack) > 1 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, level: level})
	}

	tree.Children = root.Children
	return tree
}

// RenderMarkdown renders a Result as a Markdown document: the title as a
// top-level heading followed by a nested bullet list of the outline.
func RenderMarkdown(res Result) string {
	var b strings.Builder
	if res.Title != "" {
		b.WriteString("# " + res.Title + "\n\n")
	}

	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(fmt.Sprintf("- %s (p. %d)\n", n.Title, n.Page))
			walk(n.Children, depth+1)
		}
	}
	walk(BuildTree(res).Children, 0)
	return b.String()
}
