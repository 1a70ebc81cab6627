package prompt

import (
	"encoding/json"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
)

// The record types below are the normalized shapes handed to persistence and
// rendering. Missing fields default to empty values, never absent, so
// downstream code does not branch on missing keys.

type ScriptRecord struct {
	Hook     string                `json:"gancho"`
	Body     []string              `json:"desarrollo"`
	CTA      string                `json:"cta"`
	Insights models.ScriptInsights `json:"insights"`
}

type IdeaRecord struct {
	Platform    string `json:"plataforma"`
	IdeaType    string `json:"tipo_idea"`
	Title       string `json:"titulo_idea"`
	Description string `json:"descripcion"`
	Goal        string `json:"objetivo"`
}

type ViralIdeaRecord struct {
	Goal        string `json:"objetivo"`
	Hook        string `json:"gancho"`
	Explanation string `json:"explicacion"`
}

type PlanSlotRecord struct {
	Day         json.Number `json:"dia"`
	Platform    string      `json:"plataforma"`
	ContentType string      `json:"tipo_contenido"`
	Title       string      `json:"titulo_idea"`
	Goal        string      `json:"objetivo"`
}

func (r PlanSlotRecord) DayNumber() int {
	n, err := r.Day.Int64()
	if err != nil || n < 1 {
		return 1
	}
	return int(n)
}

// NormalizeScripts coerces raw items into at most max ScriptRecords with all
// fields populated.
func NormalizeScripts(items []json.RawMessage, max int) []ScriptRecord {
	if max > 0 && len(items) > max {
		items = items[:max]
	}

	scripts := make([]ScriptRecord, 0, len(items))
	for _, item := range items {
		var s ScriptRecord
		// Unparsable entries still yield an empty-but-complete record.
		json.Unmarshal(item, &s)

		if s.Body == nil {
			s.Body = []string{}
		}
		if s.Insights == (models.ScriptInsights{}) {
			s.Insights = models.ScriptInsights{Virality: "N/A", RetentionTip: "N/A", VisualCue: "N/A"}
		}
		scripts = append(scripts, s)
	}

	return scripts
}

func NormalizeIdeas(items []json.RawMessage) []IdeaRecord {
	ideas := make([]IdeaRecord, 0, len(items))
	for _, item := range items {
		var idea IdeaRecord
		json.Unmarshal(item, &idea)
		ideas = append(ideas, idea)
	}
	return ideas
}

func NormalizeViralIdeas(items []json.RawMessage) []ViralIdeaRecord {
	ideas := make([]ViralIdeaRecord, 0, len(items))
	for _, item := range items {
		var idea ViralIdeaRecord
		json.Unmarshal(item, &idea)
		ideas = append(ideas, idea)
	}
	return ideas
}

func NormalizePlanSlots(items []json.RawMessage) []PlanSlotRecord {
	slots := make([]PlanSlotRecord, 0, len(items))
	for _, item := range items {
		var slot PlanSlotRecord
		json.Unmarshal(item, &slot)
		slots = append(slots, slot)
	}
	return slots
}
