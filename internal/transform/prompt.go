package transform

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// NoAnswer stands in for an empty answer in the enrichment prompt so every
// question keeps its position.
const NoAnswer = "(sin respuesta)"

const questionsText = `Basándote en esta entrada de diario, genera exactamente 3 preguntas reflexivas en español que ayuden al usuario a profundizar en su día.

Las preguntas deben:
- Ser específicas al contenido mencionado (no genéricas)
- Invitar a la reflexión profunda
- Ayudar a descubrir emociones o aprendizajes no mencionados
- Ser abiertas (no de sí/no)

Formato de respuesta (solo las preguntas, una por línea):
1. [pregunta]
2. [pregunta]
3. [pregunta]

Entrada de diario:
{{ .Entry }}`

const enrichText = `Toma esta entrada de diario y enriquécela con las respuestas adicionales del usuario.

Entrada original:
{{ .Original }}

Preguntas y respuestas adicionales:
{{- range $i, $q := .Questions }}
{{ if $i }}
{{ end }}P: {{ $q }}
R: {{ index $.Answers $i | trim | default $.NoAnswer }}
{{- end }}

Genera una versión mejorada de la entrada que:
- Integre naturalmente las nuevas reflexiones
- Mantenga el formato y estilo original
- Agregue una sección "Reflexiones adicionales" si es necesario
- No repita información
- Use formato Markdown`

var (
	questionsTmpl = template.Must(template.New("questions").Funcs(sprig.TxtFuncMap()).Parse(questionsText))
	enrichTmpl    = template.Must(template.New("enrich").Funcs(sprig.TxtFuncMap()).Parse(enrichText))
)

// buildPrompt joins the style instruction (or the override, when non-empty)
// and the user's text.
func buildPrompt(prefix, override, source string) string {
	if override != "" {
		prefix = override
	}
	return prefix + "\n\n" + source
}

func buildQuestionsPrompt(entry string) (string, error) {
	var b strings.Builder
	if err := questionsTmpl.Execute(&b, struct{ Entry string }{entry}); err != nil {
		return "", fmt.Errorf("render questions prompt: %w", err)
	}
	return b.String(), nil
}

func buildEnrichPrompt(original string, questions, answers []string) (string, error) {
	data := struct {
		Original  string
		Questions []string
		Answers   []string
		NoAnswer  string
	}{original, questions, answers, NoAnswer}

	var b strings.Builder
	if err := enrichTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render enrich prompt: %w", err)
	}
	return b.String(), nil
}
