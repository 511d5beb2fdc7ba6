// Package template implements the `new` command's note-scaffolding
// substitution: `{{ identifier }}` placeholders filled from a field
// map, any placeholder with no matching field rendering as empty.
// Grounded on original_source/src/template.rs's Template (a regex
// over `\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`); no templating
// library appears anywhere in the retrieved pack, so this stays on
// stdlib `regexp` rather than pulling in an unrelated templating
// engine for one substitution rule - see DESIGN.md.
package template

import "regexp"

var placeholder = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// Template is source text with named `{{ field }}` placeholders and
// the values to fill them with.
type Template struct {
	text   string
	fields map[string]string
}

// New builds a Template from text and an initial field map (nil is
// treated as empty).
func New(text string, fields map[string]string) *Template {
	if fields == nil {
		fields = map[string]string{}
	}
	return &Template{text: text, fields: fields}
}

// SetField sets or overwrites one field.
func (t *Template) SetField(key, value string) {
	t.fields[key] = value
}

// Render substitutes every `{{ identifier }}` placeholder with its
// field value, or the empty string if the field is unset.
func (t *Template) Render() string {
	return placeholder.ReplaceAllStringFunc(t.text, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		return t.fields[name]
	})
}
