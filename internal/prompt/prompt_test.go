package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateUnderBudgetUnchanged(t *testing.T) {
	assert.Equal(t, "corto", Truncate("corto", 100))
	assert.Equal(t, "exacto", Truncate("exacto", 6))
}

func TestTruncateOverBudget(t *testing.T) {
	long := strings.Repeat("a", 120)
	got := Truncate(long, 100)

	assert.Equal(t, strings.Repeat("a", 100)+TruncationMarker, got)
}

func TestTruncateIdempotent(t *testing.T) {
	long := strings.Repeat("x", 500)
	once := Truncate(long, 100)
	twice := Truncate(once, 100)

	assert.Equal(t, once, twice)
}

func TestTruncateCountsRunes(t *testing.T) {
	long := strings.Repeat("ñ", 120)
	got := Truncate(long, 100)

	assert.Equal(t, strings.Repeat("ñ", 100)+TruncationMarker, got)
}

func TestBrandContextFixedOrder(t *testing.T) {
	profile := &models.BrandProfile{
		Biography:    "bio",
		Audience:     "audiencia",
		ValuesTone:   "cercano",
		NicheTopics:  "fitness",
		KnowledgeRaw: "manual",
	}

	block := BrandContext(profile, 5000)

	bioIdx := strings.Index(block, "Biografía/Historia: bio")
	audIdx := strings.Index(block, "Audiencia Objetivo: audiencia")
	valIdx := strings.Index(block, "Valores y Tono: cercano")
	nicheIdx := strings.Index(block, "Nicho y Temas: fitness")
	knowIdx := strings.Index(block, "Conocimiento Extra: manual")

	require.True(t, bioIdx >= 0 && audIdx >= 0 && valIdx >= 0 && nicheIdx >= 0 && knowIdx >= 0)
	assert.True(t, bioIdx < audIdx && audIdx < valIdx && valIdx < nicheIdx && nicheIdx < knowIdx)
}

func TestBrandContextTruncatesKnowledge(t *testing.T) {
	profile := &models.BrandProfile{KnowledgeRaw: strings.Repeat("k", 6000)}

	block := BrandContext(profile, 5000)

	assert.Contains(t, block, TruncationMarker)
	assert.NotContains(t, block, strings.Repeat("k", 5001))
}

func TestBrandContextNilProfile(t *testing.T) {
	assert.Equal(t, "", BrandContext(nil, 5000))
}

func TestPostCountForFrequency(t *testing.T) {
	cases := map[string]int{
		"3 publicaciones por semana": 12,
		"4 publicaciones por semana": 16,
		"5 publicaciones por semana": 20,
		"7 publicaciones por semana": 28,
		"algo raro":                  12,
		"":                           12,
	}

	for freq, want := range cases {
		assert.Equal(t, want, PostCountForFrequency(freq), "frequency %q", freq)
	}
}

func TestScriptsPromptIncludesParams(t *testing.T) {
	system, user := Scripts(ScriptParams{
		Topic:        "perder peso",
		Platform:     "Reels",
		Count:        4,
		BrandContext: "CONTEXTO DE MARCA",
	})

	assert.Contains(t, system, "Genera 4 guiones")
	assert.Contains(t, system, `"perder peso"`)
	assert.Contains(t, system, "CONTEXTO DE MARCA")
	assert.Contains(t, system, "Tono: Profesional")
	assert.Contains(t, user, "Reels")
}

func TestNormalizeScriptsDefaults(t *testing.T) {
	items := []json.RawMessage{
		[]byte(`{"gancho": "hook"}`),
		[]byte(`{"desarrollo": ["p1", "p2"], "cta": "sígueme"}`),
	}

	scripts := NormalizeScripts(items, 5)
	require.Len(t, scripts, 2)

	assert.Equal(t, "hook", scripts[0].Hook)
	assert.NotNil(t, scripts[0].Body)
	assert.Empty(t, scripts[0].Body)
	assert.Equal(t, "N/A", scripts[0].Insights.Virality)

	assert.Equal(t, []string{"p1", "p2"}, scripts[1].Body)
	assert.Equal(t, "sígueme", scripts[1].CTA)
}

func TestNormalizeScriptsCapsAtMax(t *testing.T) {
	items := []json.RawMessage{
		[]byte(`{"gancho": "1"}`), []byte(`{"gancho": "2"}`),
		[]byte(`{"gancho": "3"}`), []byte(`{"gancho": "4"}`),
		[]byte(`{"gancho": "5"}`), []byte(`{"gancho": "6"}`),
	}

	scripts := NormalizeScripts(items, 4)
	assert.Len(t, scripts, 4)
}

func TestNormalizePlanSlotsDayNumber(t *testing.T) {
	items := []json.RawMessage{
		[]byte(`{"dia": 3, "plataforma": "TikTok"}`),
		[]byte(`{"dia": "no-numero"}`),
	}

	slots := NormalizePlanSlots(items)
	require.Len(t, slots, 2)
	assert.Equal(t, 3, slots[0].DayNumber())
	assert.Equal(t, 1, slots[1].DayNumber())
}
