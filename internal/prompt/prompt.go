package prompt

import (
	"fmt"
	"strings"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
)

// TruncationMarker is appended when a brand-context field exceeds its budget.
const TruncationMarker = "... [Truncated]"

// Truncate cuts s to at most budget characters and appends the marker. A
// string at or under budget passes through unchanged, and re-truncating an
// already-truncated string is a no-op.
func Truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if strings.HasSuffix(s, TruncationMarker) && len(runes) <= budget+len([]rune(TruncationMarker)) {
		return s
	}
	return string(runes[:budget]) + TruncationMarker
}

// BrandContext renders the fixed-order brand block injected into prompts. The
// long-form knowledge field is truncated to the character budget to bound
// outbound token cost.
func BrandContext(profile *models.BrandProfile, budget int) string {
	if profile == nil {
		return ""
	}

	return fmt.Sprintf(`
CONTEXTO DE MARCA DEL USUARIO (Cerebro IA):
- Biografía/Historia: %s
- Audiencia Objetivo: %s
- Valores y Tono: %s
- Nicho y Temas: %s
- Conocimiento Extra: %s
`,
		profile.Biography,
		profile.Audience,
		profile.ValuesTone,
		profile.NicheTopics,
		Truncate(profile.KnowledgeRaw, budget),
	)
}

// PostCountForFrequency maps a frequency label to the number of plan slots in
// a month. Unknown labels fall back to three posts per week.
func PostCountForFrequency(frequency string) int {
	switch frequency {
	case "4 publicaciones por semana":
		return 16
	case "5 publicaciones por semana":
		return 20
	case "7 publicaciones por semana":
		return 28
	default:
		return 12
	}
}

type ScriptParams struct {
	Topic        string
	Platform     string
	Tone         string
	Goal         string
	BrandName    string
	Count        int
	Ideas        string
	BrandContext string
}

// Scripts builds the full-script generation prompt.
func Scripts(p ScriptParams) (system, user string) {
	var extra string
	if p.Ideas != "" {
		extra = fmt.Sprintf("\nIdeas o ángulos que el usuario quiere cubrir: %s\n", p.Ideas)
	}

	system = fmt.Sprintf(`Eres un Growth Hacker y Guionista Senior experto en contenido vertical de alto impacto.

%s

Genera %d guiones PROFESIONALES para %s sobre: "%s".
Marca: %s. Tono: %s. Objetivo: %s.
%s
REGLAS DE ORO:
1. Estructura: Gancho (0-3s), Retención (3-15s), Valor (15-45s), CTA (45s+).
2. Usa el marco AIDA (Atención, Interés, Deseo, Acción) y las 4U (Urgente, Único, Ultra-específico, Útil).
3. Evita clichés de IA ("¿Alguna vez te has preguntado...?", "En el mundo de hoy...").
4. Incluye instrucciones de edición (B-roll sugerido, texto en pantalla).

Responde SOLO con JSON válido con esta estructura:
[
  {
    "gancho": "Hook de alto impacto (Atención)",
    "desarrollo": ["Puntos clave de retención y valor"],
    "cta": "Llamada a la acción estratégica",
    "insights": {
        "viralidad": "Puntuación 1-100",
        "retencion_tip": "Consejo técnico de edición para este guión",
        "visual_cue": "Sugerencia de lo que debe verse en pantalla al inicio"
    }
  }
]`,
		p.BrandContext, p.Count, p.Platform, p.Topic,
		orDefault(p.BrandName, "Genérica"), orDefault(p.Tone, "Profesional"), orDefault(p.Goal, "Viralizar"),
		extra)

	user = fmt.Sprintf("Genera los %d guiones para %s sobre: %s", p.Count, p.Platform, p.Topic)
	return system, user
}

// ViralIdeas builds the "viral mode" strategic-idea prompt.
func ViralIdeas(topic, brandContext string) (system, user string) {
	system = fmt.Sprintf(`Eres un estratega de contenido viral y experto en SEO.

%s

Analiza el tema: "%s" para identificar ángulos disruptivos y objetivos de búsqueda de alto tráfico.
Tu objetivo es generar 5 IDEAS ESTRATÉGICAS que maximicen el CTR y la retención.
Usa marcos psicológicos como "Curiosidad Negativa", "El Puente del Deseo" o "La Verdad Incómoda".

Responde SOLO con JSON válido con esta estructura:
[
  {
    "objetivo": "Objetivo SEO o de búsqueda específico",
    "gancho": "Gancho viral (Hook) disruptivo para iniciar el contenido",
    "explicacion": "Análisis psicológico de por qué esta idea funcionará (tendencias, sesgos cognitivos)"
  }
]`, brandContext, topic)

	user = fmt.Sprintf("Analiza el tema: %s", topic)
	return system, user
}

type IdeasParams struct {
	Context   string
	Platforms []string
	UseSEO    bool
	UseTikTok bool
	Goal      string
	Count     int
}

// ContentIdeas builds the idea-generator prompt.
func ContentIdeas(p IdeasParams) (system, user string) {
	system = `Actúas como estratega de contenido viral en español, especializado en contenido corto (Reels, TikTok, Shorts) y formatos largos (YouTube, Blog/SEO). Tienes conocimiento actualizado sobre tendencias, formatos y temas que están funcionando bien en los últimos meses.

Tu tarea:
- Generar IDEAS DE CONTENIDO, no guiones completos.
- Cada idea debe estar pensada para una plataforma específica, tener un ángulo claro y un potencial alto de viralidad o conversión según el objetivo.

Requisitos:
- Aprovecha patrones virales actuales: challenges, hooks típicos, formatos de lista, "cosas que nadie te cuenta", antes/después, duos/reacts.
- En caso de SEO/Blog o YouTube, piensa en títulos con alta intención de búsqueda actual.
- Responde ÚNICAMENTE con JSON válido en este preciso formato de array de objetos y NUNCA incluyas texto fuera del JSON:
[
  {
    "plataforma": "nombre de la plataforma",
    "tipo_idea": "challenge / lista / historia / error / comparativa / hack / mito / etc.",
    "titulo_idea": "título llamativo para la pieza",
    "descripcion": "2-3 líneas que expliquen cómo sería el contenido",
    "objetivo": "seguidores / ventas / autoridad / viralidad"
  }
]`

	user = fmt.Sprintf(`
Genera %d ideas de contenido altamente virales.
Nicho o Producto: %s
Plataformas Seleccionadas: %s
Objetivo Principal: %s
Utilizar tendencias recientes de Google / SEO: %s
Utilizar tendencias recientes de TikTok / Reels: %s

Por favor, devuélveme el array JSON.
`,
		p.Count, p.Context, strings.Join(p.Platforms, ", "), p.Goal,
		siNo(p.UseSEO), siNo(p.UseTikTok))

	return system, user
}

type PlanParams struct {
	Description  string
	Platforms    []string
	Frequency    string
	Focus        string
	Tone         string
	Context      string
	PostCount    int
	BrandContext string
}

// Plan builds the monthly content-plan prompt.
func Plan(p PlanParams) (system, user string) {
	system = fmt.Sprintf(`Eres un estratega experto en contenido de redes sociales en español.

Tienes el CONTEXTO DE MARCA del usuario y detalles de lo que quiere conseguir este mes.

Tu tarea: diseñar un PLAN DE CONTENIDO para 30 días.

Datos de la campaña del usuario:
- Descripción/Objetivo global: %s
- Plataformas a usar: %s
- Enfoque principal: %s
- Tono: %s
- Contexto extra o campañas específicas: %s

Reglas:
- Usa el contexto de marca para que los temas tengan sentido con la persona y su negocio.
- Distribuye el contenido para tener exactamente %d publicaciones en el mes (frecuencia: %s).
- Usa SOLO las plataformas seleccionadas.
- Mezcla formatos (errores, historias, listas, tips, casos de éxito, objeciones, bastidores, etc.) según el enfoque de: %s.
- Asegúrate de que los temas no se repiten de forma aburrida y evolucionan.
- El resultado NO son guiones completos, solo ideas bien definidas listas para guionizar.

%s

Responde SOLO con JSON válido con esta estructura:
[
  {
    "dia": 1,
    "plataforma": "Reels",
    "tipo_contenido": "Error común / Lista / Historia / Caso de éxito / etc.",
    "titulo_idea": "Título o idea concreta del contenido",
    "objetivo": "seguidores / ventas / autoridad / engagement"
  }
]

Asegúrate de que la longitud del array sea exactamente de %d posts. Los días deben ser valores como 1, 3, 5, etc., simulando la distribución en el mes.
No devuelvas explicaciones, ni Markdown de código, solo el array de JSON puro.`,
		p.Description, strings.Join(p.Platforms, ", "), p.Focus, p.Tone,
		orDefault(p.Context, "Ninguno"), p.PostCount, p.Frequency, p.Focus,
		p.BrandContext, p.PostCount)

	user = "Genera el plan de contenido mensual en JSON."
	return system, user
}

// Refine builds the single-block improvement prompt. blockType is one of
// gancho, desarrollo or cta.
func Refine(text, blockType, context string) (system, user string) {
	system = fmt.Sprintf(`Actúas como editor senior de guiones para contenido viral en español.

El usuario te dará SOLO el %s (gancho, desarrollo o cta) de un guion.

Tu tarea:
- Mejorarlo manteniendo la intención original.
- Hacerlo más claro, más potente y alineado con el tono de marca del usuario.
- No cambies completamente la idea, solo hazla más profesional y atractiva.
- Responde con UNA sola versión final sin explicaciones adicionales.`, blockType)

	user = fmt.Sprintf("Texto original: %s\nContexto: %s", text, orDefault(context, "Mejorar para redes sociales"))
	return system, user
}

// Polish builds the brand-brief rewrite prompt for the knowledge base.
func Polish(text string) (system, user string) {
	system = `Eres un experto en branding personal y comunicación estratégica en español.
El usuario te va a pasar un texto informal y poco estructurado sobre su marca personal o negocio.

Tu tarea:
- Reescribir ese texto de forma profesional, clara y precisa.
- Mantener el 100% de la intención y los datos del usuario — no inventes nada.
- Hacer que suene a un brief profesional de marca, no a un texto de chat.
- Destacar: quién es, a quién ayuda, qué resultado consigue y qué tono tiene su comunicación.
- Máximo 5–7 líneas.
- No uses bullet points, escribe en prosa.

Responde SOLO con el texto mejorado, sin explicaciones ni comentarios.`

	user = fmt.Sprintf("Texto original del usuario:\n%s", text)
	return system, user
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
