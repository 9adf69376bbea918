package types

import (
	"encoding/json"
	"testing"
)

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"zero", "0", "0", false},
		{"decimal", "10500", "10500", false},
		{"hex", "0x2a", "42", false},
		{"max 256-bit", "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "115792089237316195423570985008687907853269984665640564039457584007913129639935", false},
		{"empty", "", "", true},
		{"garbage", "xyz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseTokenID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTokenID(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTokenID(%q): %v", tt.input, err)
			}
			if id.String() != tt.want {
				t.Errorf("got %s, want %s", id, tt.want)
			}
		})
	}
}

func TestTokenIDOrdering(t *testing.T) {
	low, high := NewTokenID(1), NewTokenID(500)

	if low.Cmp(high) != -1 || high.Cmp(low) != 1 || low.Cmp(low) != 0 {
		t.Error("Cmp ordering wrong")
	}
	if !low.Equal(NewTokenID(1)) || low.Equal(high) {
		t.Error("Equal wrong")
	}
}

func TestTokenIDJSON(t *testing.T) {
	id := MustTokenID("0xffffffffffffffffffffffffffffffff") // 2^128 - 1

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatal(err)
	}

	var back TokenID
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(id) {
		t.Errorf("round trip: got %s, want %s", back, id)
	}
}
