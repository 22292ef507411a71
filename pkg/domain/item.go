package domain

// Item is a single node of an outline tree.
//
// An item with an empty ParentID is an outline root. Every other item has
// exactly one parent and appears exactly once in that parent's Subitems.
type Item struct {
	// ID is the unique identifier. Immutable after creation.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// ParentID is the owning item's ID, or empty for an outline root.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty" mapstructure:"parent_id"`

	// Subitems is the ordered sequence of child IDs. No duplicates.
	Subitems []string `json:"subitems,omitempty" yaml:"subitems,omitempty" mapstructure:"subitems"`

	// Title is a single line of text (no line breaks).
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Note is free-form multi-line text.
	Note string `json:"note,omitempty" yaml:"note,omitempty" mapstructure:"note"`
}

// IsRoot reports whether the item is an outline (has no parent).
func (i Item) IsRoot() bool {
	return i.ParentID == ""
}

// Clone returns a deep copy of the item.
// Stores hand out clones so callers can never alias internal state.
func (i Item) Clone() Item {
	c := i
	if i.Subitems != nil {
		c.Subitems = make([]string, len(i.Subitems))
		copy(c.Subitems, i.Subitems)
	}
	return c
}

// Tree is a nested projection of an item and its descendants, used by the
// query surface (HTTP/MCP adapters, CLI rendering).
type Tree struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Note     string  `json:"note,omitempty"`
	Children []*Tree `json:"children,omitempty"`
}
