// Package factline turns raw fact lines into typed domain.Fact values.
//
// Classification is data-driven: an ordered table of (pattern, fields)
// registrations is tried top to bottom, and the first match wins. Captures
// are decoded into an intermediate record via mapstructure and validated
// into typed fields immediately — handlers downstream never see raw
// strings.
package factline

import (
	"fmt"
	"regexp"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/arbor/pkg/domain"
)

// pattern is one entry of the classification table.
type pattern struct {
	kind   domain.FactKind
	re     *regexp.Regexp
	fields []string // names for the capture groups, in order
}

// table is the fixed, build-time registration of fact grammars.
// Order matters: more specific patterns first within each subject.
var table = []pattern{
	{
		kind:   domain.FactOutlineCreated,
		re:     regexp.MustCompile(`^Outline "([^"]+)" was created$`),
		fields: []string{"id"},
	},
	{
		kind:   domain.FactItemCreated,
		re:     regexp.MustCompile(`^Item "([^"]+)" was created inside item "([^"]+)" at position "([^"]+)"$`),
		fields: []string{"id", "parent_id", "position"},
	},
	{
		kind:   domain.FactTitleChanged,
		re:     regexp.MustCompile(`^Item "([^"]+)"'s title was changed to (".*")$`),
		fields: []string{"id", "payload"},
	},
	{
		kind:   domain.FactNoteChanged,
		re:     regexp.MustCompile(`^Item "([^"]+)"'s note was changed to (".*")$`),
		fields: []string{"id", "payload"},
	},
	{
		kind:   domain.FactOutlineDeleted,
		re:     regexp.MustCompile(`^Outline "([^"]+)" was deleted$`),
		fields: []string{"id"},
	},
	{
		kind:   domain.FactItemDeleted,
		re:     regexp.MustCompile(`^Item "([^"]+)" was deleted$`),
		fields: []string{"id"},
	},
	{
		kind:   domain.FactItemMoved,
		re:     regexp.MustCompile(`^Item "([^"]+)" was moved inside item "([^"]+)" at position "([^"]+)"$`),
		fields: []string{"id", "parent_id", "position"},
	},
}

// captures is the untyped intermediate record between regexp match and
// typed fact. All values are strings at this stage.
type captures struct {
	ID       string `mapstructure:"id"`
	ParentID string `mapstructure:"parent_id"`
	Position string `mapstructure:"position"`
	Payload  string `mapstructure:"payload"`
}

// Parse classifies a fact line and decodes it into a typed fact.
//
// Errors: domain.ErrNoMatchingPattern if no registration matches,
// domain.ErrInvalidPosition for non-canonical position tokens, and
// domain.ErrMalformedEncoding for bad title/note payloads.
func Parse(line string) (domain.Fact, error) {
	for _, p := range table {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		raw := make(map[string]string, len(p.fields))
		for i, name := range p.fields {
			raw[name] = m[i+1]
		}

		var c captures
		if err := mapstructure.Decode(raw, &c); err != nil {
			return domain.Fact{}, fmt.Errorf("decode captures for %s: %w", p.kind, err)
		}

		return decode(p.kind, c)
	}
	return domain.Fact{}, fmt.Errorf("%w: %q", domain.ErrNoMatchingPattern, line)
}

// decode validates the raw captures into typed fields per fact kind.
func decode(kind domain.FactKind, c captures) (domain.Fact, error) {
	fact := domain.Fact{Kind: kind, ID: c.ID}

	switch kind {
	case domain.FactItemCreated, domain.FactItemMoved:
		pos, err := ParsePosition(c.Position)
		if err != nil {
			return domain.Fact{}, err
		}
		fact.ParentID = c.ParentID
		fact.Position = pos

	case domain.FactTitleChanged:
		text, err := DecodeText(c.Payload)
		if err != nil {
			return domain.Fact{}, err
		}
		if err := validateTitle(text); err != nil {
			return domain.Fact{}, err
		}
		fact.Text = text

	case domain.FactNoteChanged:
		// Notes are unrestricted multi-line text.
		text, err := DecodeText(c.Payload)
		if err != nil {
			return domain.Fact{}, err
		}
		fact.Text = text

	case domain.FactOutlineCreated, domain.FactOutlineDeleted, domain.FactItemDeleted:
		// ID-only facts; nothing further to decode.
	}

	return fact, nil
}

// Format renders a typed fact back into its line form. It is the inverse
// of Parse for well-formed facts and is used when appending to fact logs.
func Format(fact domain.Fact) (string, error) {
	switch fact.Kind {
	case domain.FactOutlineCreated:
		return fmt.Sprintf(`Outline "%s" was created`, fact.ID), nil
	case domain.FactItemCreated:
		return fmt.Sprintf(`Item "%s" was created inside item "%s" at position "%s"`,
			fact.ID, fact.ParentID, FormatPosition(fact.Position)), nil
	case domain.FactTitleChanged:
		return fmt.Sprintf(`Item "%s"'s title was changed to %s`, fact.ID, EncodeText(fact.Text)), nil
	case domain.FactNoteChanged:
		return fmt.Sprintf(`Item "%s"'s note was changed to %s`, fact.ID, EncodeText(fact.Text)), nil
	case domain.FactOutlineDeleted:
		return fmt.Sprintf(`Outline "%s" was deleted`, fact.ID), nil
	case domain.FactItemDeleted:
		return fmt.Sprintf(`Item "%s" was deleted`, fact.ID), nil
	case domain.FactItemMoved:
		return fmt.Sprintf(`Item "%s" was moved inside item "%s" at position "%s"`,
			fact.ID, fact.ParentID, FormatPosition(fact.Position)), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownFactKind, fact.Kind)
	}
}
