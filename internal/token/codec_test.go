package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/dvloznov/gastobot/internal/domain"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.Draft
	}{
		{"simple", domain.Draft{Item: "café", TotalPrice: 5.50, Quantity: 1}},
		{"integral price", domain.Draft{Item: "pizza", TotalPrice: 25, Quantity: 1}},
		{"quantity above one", domain.Draft{Item: "cerveja", TotalPrice: 27, Quantity: 3}},
		{"label with separator character", domain.Draft{Item: "conta_de_luz", TotalPrice: 150.90, Quantity: 1}},
		{"label with underscores and spaces", domain.Draft{Item: "pizza _ grande _ família", TotalPrice: 89.90, Quantity: 2}},
		{"label with emoji", domain.Draft{Item: "café ☕", TotalPrice: 5, Quantity: 1}},
		{"two decimal price", domain.Draft{Item: "almoço", TotalPrice: 15.90, Quantity: 1}},
		{"zero price", domain.Draft{Item: "brinde", TotalPrice: 0, Quantity: 1}},
		{"large quantity", domain.Draft{Item: "água", TotalPrice: 120, Quantity: 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.draft)
			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode(Encode(%+v)) failed: %v (token %q)", tt.draft, err, encoded)
			}
			if decoded != tt.draft {
				t.Errorf("round trip = %+v, want %+v (token %q)", decoded, tt.draft, encoded)
			}
		})
	}
}

func TestEncode_Format(t *testing.T) {
	t.Run("integral total has no fractional part", func(t *testing.T) {
		tok := Encode(domain.Draft{Item: "pizza", TotalPrice: 25, Quantity: 1})
		if !strings.HasSuffix(tok, "_25") {
			t.Errorf("token %q should end with _25", tok)
		}
	})

	t.Run("quantity one is omitted", func(t *testing.T) {
		tok := Encode(domain.Draft{Item: "café", TotalPrice: 5.5, Quantity: 1})
		if got := strings.Count(tok, "_"); got != 1 {
			t.Errorf("token %q has %d separators, want 1 (quantity segment omitted)", tok, got)
		}
	})

	t.Run("quantity above one is appended", func(t *testing.T) {
		tok := Encode(domain.Draft{Item: "cerveja", TotalPrice: 27, Quantity: 3})
		if !strings.HasSuffix(tok, "_27_3") {
			t.Errorf("token %q should end with _27_3", tok)
		}
	})

	t.Run("label segment never contains the separator", func(t *testing.T) {
		tok := Encode(domain.Draft{Item: "a_b_c_d", TotalPrice: 1, Quantity: 1})
		label := tok[:strings.Index(tok, "_")]
		if strings.Contains(label, "_") {
			t.Errorf("encoded label %q contains the separator", label)
		}
	})
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"single segment", "Y2Fmw6k"},
		{"too many segments", "Y2Fmw6k_5_2_9"},
		{"label not base64", "né!?_5"},
		{"total not a number", "Y2Fmw6k_abc"},
		{"negative total", "Y2Fmw6k_-5"},
		{"quantity not an integer", "Y2Fmw6k_5_x"},
		{"quantity zero", "Y2Fmw6k_5_0"},
		{"quantity negative", "Y2Fmw6k_5_-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			if !errors.Is(err, ErrBadToken) {
				t.Errorf("Decode(%q) error = %v, want ErrBadToken", tt.token, err)
			}
		})
	}
}

func TestDecode_LegacyTwoSegmentToken(t *testing.T) {
	// Tokens produced before the quantity segment existed must still decode
	// with quantity 1.
	draft, err := Decode("Y2Fmw6k_5.5")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if draft.Item != "café" || draft.TotalPrice != 5.5 || draft.Quantity != 1 {
		t.Errorf("Decode = %+v, want {café 5.5 1}", draft)
	}
}
