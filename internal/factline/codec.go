package factline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// DecodeText decodes a quoted-string payload (escape-aware, double quotes
// required). Fails with domain.ErrMalformedEncoding if the token is not a
// single valid quoted string.
func DecodeText(token string) (string, error) {
	if len(token) < 2 || token[0] != '"' {
		return "", fmt.Errorf("%w: payload %q is not a quoted string", domain.ErrMalformedEncoding, token)
	}
	s, err := strconv.Unquote(token)
	if err != nil {
		return "", fmt.Errorf("%w: payload %q: %v", domain.ErrMalformedEncoding, token, err)
	}
	return s, nil
}

// EncodeText encodes a string as a quoted payload. DecodeText(EncodeText(s))
// always round-trips to s.
func EncodeText(s string) string {
	return strconv.Quote(s)
}

// ParsePosition parses a canonical non-negative decimal position token.
// Leading zeros, signs, and non-numeric characters are rejected: the token
// must survive an integer round-trip byte for byte.
func ParsePosition(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || strconv.Itoa(n) != token {
		return 0, fmt.Errorf("%w: %q is not a canonical non-negative integer", domain.ErrInvalidPosition, token)
	}
	return n, nil
}

// FormatPosition renders a position back into its canonical token.
func FormatPosition(n int) string {
	return strconv.Itoa(n)
}

// validateTitle rejects decoded titles containing line breaks (invariant
// I4: titles are single-line).
func validateTitle(title string) error {
	if strings.ContainsAny(title, "\n\r") {
		return fmt.Errorf("%w: title contains a line break", domain.ErrMalformedEncoding)
	}
	return nil
}
