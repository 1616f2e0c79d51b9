// Package token encodes a pending draft transaction into a compact,
// reversible string carried inside an interactive control identifier. The
// token is the draft's only representation: nothing is kept server-side
// between sending the confirmation control and the user's tap, so a token
// survives process restarts and remains valid indefinitely.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dvloznov/gastobot/internal/domain"
)

// ErrBadToken is returned when a token does not match the
// label_total[_quantity] grammar or a segment fails to decode.
var ErrBadToken = errors.New("token: malformed confirmation token")

// separator delimits the token segments. The label segment is base64 with
// the standard alphabet (A-Za-z0-9+/), which provably never contains "_",
// so the grammar is unambiguous for arbitrary labels.
const separator = "_"

// labelEncoding is binary-safe and free of the separator and of "=" padding.
var labelEncoding = base64.RawStdEncoding

// Encode serializes a draft into label_total[_quantity]. The total drops the
// fractional part when integral ("25", not "25.00"); the quantity segment is
// omitted when it equals 1, keeping older two-segment tokens decodable.
func Encode(draft domain.Draft) string {
	parts := []string{
		labelEncoding.EncodeToString([]byte(draft.Item)),
		formatAmount(draft.TotalPrice),
	}
	if draft.Quantity > 1 {
		parts = append(parts, strconv.Itoa(draft.Quantity))
	}
	return strings.Join(parts, separator)
}

// Decode reverses Encode. Any structural mismatch, undecodable label or
// non-numeric segment yields ErrBadToken.
func Decode(token string) (domain.Draft, error) {
	parts := strings.Split(token, separator)
	if len(parts) < 2 || len(parts) > 3 {
		return domain.Draft{}, fmt.Errorf("Decode: %d segments: %w", len(parts), ErrBadToken)
	}

	label, err := labelEncoding.DecodeString(parts[0])
	if err != nil {
		return domain.Draft{}, fmt.Errorf("Decode: label segment: %w", ErrBadToken)
	}

	total, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || total < 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return domain.Draft{}, fmt.Errorf("Decode: total segment %q: %w", parts[1], ErrBadToken)
	}

	quantity := 1
	if len(parts) == 3 {
		quantity, err = strconv.Atoi(parts[2])
		if err != nil || quantity < 1 {
			return domain.Draft{}, fmt.Errorf("Decode: quantity segment %q: %w", parts[2], ErrBadToken)
		}
	}

	return domain.Draft{Item: string(label), TotalPrice: total, Quantity: quantity}, nil
}

// formatAmount renders a non-negative amount as a decimal string, integral
// values without a fractional part.
func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
