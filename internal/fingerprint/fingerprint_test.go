package fingerprint

import (
	"strings"
	"testing"
)

func TestComputeDeterministic(t *testing.T) {
	a := Compute("func main() {}")
	b := Compute("func main() {}")
	if a != b {
		t.Errorf("Compute() not deterministic: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Compute() digest length = %d, want 64 hex chars", len(a))
	}
}

func TestComputeIgnoresWhitespace(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			name: "reformatted code",
			a:    "func main() {\n\tfmt.Println(1)\n}",
			b:    "func main() { fmt.Println(1) }",
			same: true,
		},
		{
			name: "trailing newlines",
			a:    "package main",
			b:    "package main\n\n\n",
			same: true,
		},
		{
			name: "tabs vs spaces",
			a:    "a\tb\tc",
			b:    "a b c",
			same: true,
		},
		{
			name: "changed identifier",
			a:    "var count int",
			b:    "var total int",
			same: false,
		},
		{
			name: "whitespace-only difference inside a token",
			a:    "foobar",
			b:    "foo bar",
			same: true, // collapsing removes the distinction entirely
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.a) == Compute(tt.b)
			if got != tt.same {
				t.Errorf("Compute(%q) == Compute(%q) = %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	empty := Compute("")
	onlyWS := Compute(" \n\t ")
	if empty != onlyWS {
		t.Errorf("whitespace-only text should fingerprint like empty text")
	}
}

func TestComputeLargeInput(t *testing.T) {
	big := strings.Repeat("line of source code\n", 10000)
	if Compute(big) != Compute(strings.ReplaceAll(big, "\n", "  ")) {
		t.Errorf("newline-to-space rewrite changed the fingerprint")
	}
}

func TestWorkspace(t *testing.T) {
	a := Workspace("/home/alice/project")
	b := Workspace("/home/bob/project")
	if a == b {
		t.Errorf("distinct roots must map to distinct namespaces")
	}
	if a != Workspace("/home/alice/project") {
		t.Errorf("Workspace() not deterministic")
	}
	if len(a) != 16 {
		t.Errorf("Workspace() digest length = %d, want 16", len(a))
	}
}
