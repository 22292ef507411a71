package factline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
)

func TestTextCodec_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"Hello",
		`quotes " inside`,
		"tabs\tand\nnewlines",
		"unicode: héllo ✓",
		`back\slash`,
	} {
		decoded, err := DecodeText(EncodeText(s))
		require.NoError(t, err, "input: %q", s)
		assert.Equal(t, s, decoded)
	}
}

func TestDecodeText_Malformed(t *testing.T) {
	for _, tok := range []string{
		``,
		`"`,
		`no quotes`,
		`"unterminated`,
		`'single'`,
		"`raw`",
		`"bad \q escape"`,
		`"a" trailing`,
	} {
		_, err := DecodeText(tok)
		assert.ErrorIs(t, err, domain.ErrMalformedEncoding, "token: %q", tok)
	}
}

func TestParsePosition_Canonical(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for tok, want := range map[string]int{"0": 0, "1": 1, "42": 42, "1000": 1000} {
			n, err := ParsePosition(tok)
			require.NoError(t, err)
			assert.Equal(t, want, n)
			// Decoding then re-encoding must reproduce the token exactly.
			assert.Equal(t, tok, FormatPosition(n))
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		for _, tok := range []string{"", "01", "007", "+1", "-1", "1x", " 2", "2 ", "1e3", "٣"} {
			_, err := ParsePosition(tok)
			assert.ErrorIs(t, err, domain.ErrInvalidPosition, "token: %q", tok)
		}
	})
}
