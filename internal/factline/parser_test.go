package factline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
)

func TestParse_AllKinds(t *testing.T) {
	cases := []struct {
		name string
		line string
		want domain.Fact
	}{
		{
			name: "Outline Created",
			line: `Outline "r" was created`,
			want: domain.Fact{Kind: domain.FactOutlineCreated, ID: "r"},
		},
		{
			name: "Item Created",
			line: `Item "a" was created inside item "r" at position "0"`,
			want: domain.Fact{Kind: domain.FactItemCreated, ID: "a", ParentID: "r", Position: 0},
		},
		{
			name: "Title Changed",
			line: `Item "a"'s title was changed to "Hello"`,
			want: domain.Fact{Kind: domain.FactTitleChanged, ID: "a", Text: "Hello"},
		},
		{
			name: "Title With Escapes",
			line: `Item "a"'s title was changed to "say \"hi\""`,
			want: domain.Fact{Kind: domain.FactTitleChanged, ID: "a", Text: `say "hi"`},
		},
		{
			name: "Note Changed Multiline",
			line: `Item "a"'s note was changed to "line one\nline two"`,
			want: domain.Fact{Kind: domain.FactNoteChanged, ID: "a", Text: "line one\nline two"},
		},
		{
			name: "Outline Deleted",
			line: `Outline "r" was deleted`,
			want: domain.Fact{Kind: domain.FactOutlineDeleted, ID: "r"},
		},
		{
			name: "Item Deleted",
			line: `Item "a" was deleted`,
			want: domain.Fact{Kind: domain.FactItemDeleted, ID: "a"},
		},
		{
			name: "Item Moved",
			line: `Item "a" was moved inside item "r" at position "12"`,
			want: domain.Fact{Kind: domain.FactItemMoved, ID: "a", ParentID: "r", Position: 12},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fact, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fact)
		})
	}
}

func TestParse_NoMatchingPattern(t *testing.T) {
	for _, line := range []string{
		"",
		"Something else entirely",
		`Outline r was created`,                        // unquoted id
		`Item "a" was created inside item "r"`,         // missing position
		`Item "a" was renamed to "x"`,                  // unknown verb
		`outline "r" was created`,                      // case sensitive
		`Outline "r" was created and then some`,        // trailing garbage
		`Item "a"'s title was changed to Hello`,        // unquoted payload
	} {
		_, err := Parse(line)
		assert.ErrorIs(t, err, domain.ErrNoMatchingPattern, "line: %q", line)
	}
}

func TestParse_InvalidPosition(t *testing.T) {
	for _, tok := range []string{"01", "+1", "-1", " 1", "1 ", "x", "1.5", "00"} {
		line := `Item "a" was created inside item "r" at position "` + tok + `"`
		_, err := Parse(line)
		assert.ErrorIs(t, err, domain.ErrInvalidPosition, "token: %q", tok)
	}
}

func TestParse_MalformedEncoding(t *testing.T) {
	t.Run("Bad Escape", func(t *testing.T) {
		_, err := Parse(`Item "a"'s title was changed to "\q"`)
		assert.ErrorIs(t, err, domain.ErrMalformedEncoding)
	})

	t.Run("Embedded Newline In Title", func(t *testing.T) {
		// The payload decodes fine but violates the single-line title rule.
		_, err := Parse(`Item "a"'s title was changed to "one\ntwo"`)
		assert.ErrorIs(t, err, domain.ErrMalformedEncoding)
	})

	t.Run("Newline Allowed In Note", func(t *testing.T) {
		fact, err := Parse(`Item "a"'s note was changed to "one\ntwo"`)
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo", fact.Text)
	})
}

func TestFormat_RoundTrip(t *testing.T) {
	facts := []domain.Fact{
		{Kind: domain.FactOutlineCreated, ID: "r"},
		{Kind: domain.FactItemCreated, ID: "a", ParentID: "r", Position: 3},
		{Kind: domain.FactTitleChanged, ID: "a", Text: `quotes " and \ slashes`},
		{Kind: domain.FactNoteChanged, ID: "a", Text: "multi\nline"},
		{Kind: domain.FactOutlineDeleted, ID: "r"},
		{Kind: domain.FactItemDeleted, ID: "a"},
		{Kind: domain.FactItemMoved, ID: "a", ParentID: "b", Position: 0},
	}

	for _, fact := range facts {
		line, err := Format(fact)
		require.NoError(t, err)

		parsed, err := Parse(line)
		require.NoError(t, err, "line: %s", line)
		assert.Equal(t, fact, parsed)
	}
}

func TestFormat_UnknownKind(t *testing.T) {
	_, err := Format(domain.Fact{Kind: "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownFactKind)
}
