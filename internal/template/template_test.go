package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesFields(t *testing.T) {
	tpl := New("title: {{ title }}\n", map[string]string{"title": "My Note"})
	assert.Equal(t, "title: My Note\n", tpl.Render())
}

func TestRenderToleratesExtraWhitespaceInBraces(t *testing.T) {
	tpl := New("{{   name  }}", map[string]string{"name": "ok"})
	assert.Equal(t, "ok", tpl.Render())
}

func TestRenderUnknownFieldIsEmpty(t *testing.T) {
	tpl := New("[{{ missing }}]", nil)
	assert.Equal(t, "[]", tpl.Render())
}

func TestSetFieldOverridesPreviousValue(t *testing.T) {
	tpl := New("{{ x }}", map[string]string{"x": "one"})
	tpl.SetField("x", "two")
	assert.Equal(t, "two", tpl.Render())
}

func TestRenderLeavesMalformedPlaceholdersAlone(t *testing.T) {
	tpl := New("{ not a placeholder }", nil)
	assert.Equal(t, "{ not a placeholder }", tpl.Render())
}
