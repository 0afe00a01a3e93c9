package core

import (
	"errors"
	"strings"
	"testing"
)

func TestCompileTemplate_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no placeholders", "Hello there"},
		{"single placeholder", "Hi {{nama}}"},
		{"repeated placeholder", "{{nama}} and {{nama}}"},
		{"unknown placeholder", "Hi {{email}}"},
		{"multiline", "Hi {{nama}},\n\nWelcome."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompileTemplate(tt.raw); err != nil {
				t.Fatalf("CompileTemplate(%q) error = %v", tt.raw, err)
			}
		})
	}
}

func TestCompileTemplate_Unbalanced(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unclosed marker", "Hi {{nama"},
		{"stray closing marker", "Hi }} there"},
		{"closing before opening", "}}{{nama}}"},
		{"nested opening", "a{{b{{c}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileTemplate(tt.raw)
			if err == nil {
				t.Fatalf("CompileTemplate(%q) expected error", tt.raw)
			}
			var te *TemplateError
			if !errors.As(err, &te) {
				t.Fatalf("CompileTemplate(%q) error = %T, want *TemplateError", tt.raw, err)
			}
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	renderer, err := CompileTemplate("Hi {{nama}},\n\nWelcome.")
	if err != nil {
		t.Fatalf("CompileTemplate() error = %v", err)
	}

	msg := renderer.Render("Budi")
	if msg.Full != "Hi Budi,\n\nWelcome." {
		t.Errorf("Full = %q, want %q", msg.Full, "Hi Budi,\n\nWelcome.")
	}
	if msg.SingleLine != "Hi Budi, Welcome." {
		t.Errorf("SingleLine = %q, want %q", msg.SingleLine, "Hi Budi, Welcome.")
	}
}

func TestRenderer_Render_SubstitutesEveryOccurrence(t *testing.T) {
	raw := "{{nama}} {{nama}} -- {{nama}}"
	renderer, err := CompileTemplate(raw)
	if err != nil {
		t.Fatalf("CompileTemplate() error = %v", err)
	}

	msg := renderer.Render("Siti")
	want := strings.ReplaceAll(raw, Placeholder, "Siti")
	if msg.Full != want {
		t.Errorf("Full = %q, want %q", msg.Full, want)
	}
}

func TestRenderer_Render_LeavesUnknownPlaceholders(t *testing.T) {
	renderer, err := CompileTemplate("Hi {{nama}}, your code is {{kode}}")
	if err != nil {
		t.Fatalf("CompileTemplate() error = %v", err)
	}

	msg := renderer.Render("Ahmad")
	if msg.Full != "Hi Ahmad, your code is {{kode}}" {
		t.Errorf("Full = %q, unknown placeholder must pass through verbatim", msg.Full)
	}
}

func TestRenderer_Render_Deterministic(t *testing.T) {
	renderer, err := CompileTemplate("Halo {{nama}}!\n\nSalam.")
	if err != nil {
		t.Fatalf("CompileTemplate() error = %v", err)
	}

	first := renderer.Render("Dewi")
	second := renderer.Render("Dewi")
	if first != second {
		t.Errorf("renders differ: %+v vs %+v", first, second)
	}

	// Compiling the same raw again must yield identical output too.
	again, err := CompileTemplate(renderer.Raw())
	if err != nil {
		t.Fatalf("recompile error = %v", err)
	}
	if got := again.Render("Dewi"); got != first {
		t.Errorf("recompiled render = %+v, want %+v", got, first)
	}
}

func TestCollapseLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line", "hello", "hello"},
		{"trims each line", "  a  \n  b  ", "a b"},
		{"drops blank lines", "a\n\n\nb", "a b"},
		{"only blanks", " \n\t\n ", ""},
		{"windows newlines", "a\r\nb\r\n", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseLines(tt.in); got != tt.want {
				t.Errorf("CollapseLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollapseLines_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hi Budi,\n\nWelcome.",
		"  spaced  \n lines \n\n here ",
		"already one line",
	}
	for _, in := range inputs {
		once := CollapseLines(in)
		twice := CollapseLines(once)
		if once != twice {
			t.Errorf("collapse not idempotent for %q: %q != %q", in, once, twice)
		}
		if strings.ContainsAny(once, "\n\r") {
			t.Errorf("collapse left newlines in %q", once)
		}
	}
}
