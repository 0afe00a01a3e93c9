package core

// template.go implements the mail-merge template engine.
//
// A template is plain text with the literal placeholder {{nama}} standing in
// for the recipient's name. Compilation only checks that {{ / }} markers are
// balanced; any marker pair other than {{nama}} passes through verbatim, so
// a template mentioning an unknown field renders without error.

import "strings"

// Placeholder is the one recognized substitution token. Case-sensitive.
const Placeholder = "{{nama}}"

const (
	markerOpen  = "{{"
	markerClose = "}}"
)

// Renderer is a compiled template. It is immutable and safe for concurrent
// use; compiling the same raw text twice yields renderers with identical
// output for identical input.
type Renderer struct {
	raw string
}

// CompileTemplate validates the placeholder markers in raw and returns a
// Renderer. It fails with a TemplateError only when markers are unbalanced.
func CompileTemplate(raw string) (*Renderer, error) {
	rest := raw
	for {
		open := strings.Index(rest, markerOpen)
		closing := strings.Index(rest, markerClose)

		if open == -1 && closing == -1 {
			return &Renderer{raw: raw}, nil
		}
		if open == -1 || (closing != -1 && closing < open) {
			return nil, &TemplateError{Message: "closing marker }} without matching {{"}
		}
		if closing == -1 {
			return nil, &TemplateError{Message: "unclosed placeholder marker {{"}
		}
		if inner := rest[open+len(markerOpen) : closing]; strings.Contains(inner, markerOpen) {
			return nil, &TemplateError{Message: "nested placeholder marker {{"}
		}
		rest = rest[closing+len(markerClose):]
	}
}

// Raw returns the template text the renderer was compiled from.
func (r *Renderer) Raw() string { return r.raw }

// Render substitutes every occurrence of {{nama}} with name and derives the
// single-line variant. It is pure: the same input always yields byte-identical
// output.
func (r *Renderer) Render(name string) RenderedMessage {
	full := strings.ReplaceAll(r.raw, Placeholder, name)
	return RenderedMessage{
		Full:       full,
		SingleLine: CollapseLines(full),
	}
}

// RenderRecipient renders the template for a roster entry.
func (r *Renderer) RenderRecipient(rec Recipient) RenderedMessage {
	return r.Render(rec.Name)
}

// CollapseLines trims each line of text, drops blank lines, and joins the
// remainder with single spaces. The result contains no newlines and the
// operation is idempotent.
func CollapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}
