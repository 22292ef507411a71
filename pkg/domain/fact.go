package domain

// FactKind identifies the category of a fact.
type FactKind string

const (
	FactOutlineCreated FactKind = "outline_created"
	FactItemCreated    FactKind = "item_created"
	FactTitleChanged   FactKind = "title_changed"
	FactNoteChanged    FactKind = "note_changed"
	FactOutlineDeleted FactKind = "outline_deleted"
	FactItemDeleted    FactKind = "item_deleted"
	FactItemMoved      FactKind = "item_moved"
)

// Fact is an immutable statement describing something that happened to the
// tree. It is the unit of the replay log.
//
// Facts carry typed payload fields: positions are decoded integers and
// Text is the already-decoded title/note. The textual wire format lives in
// internal/factline; a Fact is what comes out of it.
type Fact struct {
	Kind FactKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// ID is the subject item of the fact.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// ParentID is the target parent for item_created and item_moved.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty" mapstructure:"parent_id"`

	// Position is the zero-based insertion index for item_created and
	// item_moved.
	Position int `json:"position" yaml:"position" mapstructure:"position"`

	// Text is the decoded title or note for title_changed / note_changed.
	Text string `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
}

// Kinds lists every known fact kind, in grammar order.
func Kinds() []FactKind {
	return []FactKind{
		FactOutlineCreated,
		FactItemCreated,
		FactTitleChanged,
		FactNoteChanged,
		FactOutlineDeleted,
		FactItemDeleted,
		FactItemMoved,
	}
}

// OrphanPolicy controls what happens to the subitems of a deleted item.
//
// The source model left orphaned children dangling; Arbor makes the policy
// explicit and configurable.
type OrphanPolicy int

const (
	// OrphanCascade deletes the entire subtree of a deleted item. Default.
	OrphanCascade OrphanPolicy = iota

	// OrphanReparent splices the deleted item's children into its former
	// parent at the slot the item occupied, preserving order. Children of
	// a deleted outline root become roots themselves.
	OrphanReparent
)

// String implements fmt.Stringer for logs and config files.
func (p OrphanPolicy) String() string {
	switch p {
	case OrphanCascade:
		return "cascade"
	case OrphanReparent:
		return "reparent"
	default:
		return "unknown"
	}
}

// ParseOrphanPolicy converts a config token into an OrphanPolicy.
func ParseOrphanPolicy(s string) (OrphanPolicy, bool) {
	switch s {
	case "", "cascade":
		return OrphanCascade, true
	case "reparent":
		return OrphanReparent, true
	default:
		return OrphanCascade, false
	}
}
