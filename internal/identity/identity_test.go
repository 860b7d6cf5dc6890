package identity

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain handle", "alice", "@alice"},
		{"already marked", "@alice", "@alice"},
		{"uppercase folded", "@Alice_99", "@alice_99"},
		{"whitespace trimmed", "  @Bob  ", "@bob"},
		{"blank", "", ""},
		{"whitespace only", "   ", ""},
		{"bare marker", "@", ""},
		{"only first marker stripped", "@@alice", "@@alice"},
		{"dots and underscores kept", "@a.b_c", "@a.b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"alice", "@Alice", "  @BOB ", "", "@", "@@x", "@a.b_c", "Weird Name!"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"simple", "@alice", true},
		{"no marker", "alice", true},
		{"digits dots underscores", "@a1._b", true},
		{"single char", "@a", true},
		{"thirty chars", "@" + "abcdefghijklmnopqrstuvwxyz0123"[:30], true},
		{"empty", "", false},
		{"bare marker", "@", false},
		{"thirty-one chars", "@" + "abcdefghijklmnopqrstuvwxyz01234", false},
		{"space inside", "@a b", false},
		{"hyphen", "@a-b", false},
		{"second marker", "@@alice", false},
		{"unicode", "@héllo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.in); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
