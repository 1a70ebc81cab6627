package llm

import (
	"encoding/json"
	"testing"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArrayBare(t *testing.T) {
	items, err := ExtractArray(`[{"gancho": "a"}, {"gancho": "b"}]`)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestExtractArraySurroundedByProse(t *testing.T) {
	reply := "Claro, aquí tienes los guiones:\n\n" +
		`[{"gancho": "Deja de hacer esto", "cta": "Sígueme"}]` +
		"\n\nEspero que te sirvan."

	items, err := ExtractArray(reply)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var script map[string]string
	require.NoError(t, json.Unmarshal(items[0], &script))
	assert.Equal(t, "Deja de hacer esto", script["gancho"])
}

func TestExtractArrayNestedBracketsInStrings(t *testing.T) {
	reply := `[{"gancho": "usa [corchetes] y \"comillas\"", "cta": "ya"}]`

	items, err := ExtractArray(reply)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestExtractArrayObjectWithScriptsField(t *testing.T) {
	reply := `El resultado: {"scripts": [{"gancho": "uno"}, {"gancho": "dos"}, {"gancho": "tres"}]}`

	items, err := ExtractArray(reply)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestExtractArrayBareObjectWrapped(t *testing.T) {
	items, err := ExtractArray(`{"gancho": "solo uno", "cta": "ya"}`)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var script map[string]string
	require.NoError(t, json.Unmarshal(items[0], &script))
	assert.Equal(t, "solo uno", script["gancho"])
}

func TestExtractArrayNoJSON(t *testing.T) {
	_, err := ExtractArray("Lo siento, no puedo generar guiones ahora mismo.")
	assert.ErrorIs(t, err, apperr.ErrMalformedOutput)
}

func TestExtractArrayEmptyArray(t *testing.T) {
	_, err := ExtractArray("Aquí tienes: []")
	assert.ErrorIs(t, err, apperr.ErrNoResults)
}

func TestExtractArrayUnbalancedBrackets(t *testing.T) {
	_, err := ExtractArray(`[{"gancho": "cortado por max_tokens", "desarrollo": [`)
	assert.ErrorIs(t, err, apperr.ErrMalformedOutput)
}

func TestMatchSpanFirstTopLevelArray(t *testing.T) {
	span, ok := matchSpan(`texto ["a", ["b"]] y luego ["c"]`, '[', ']')
	require.True(t, ok)
	assert.Equal(t, `["a", ["b"]]`, span)
}
