// Package styles holds the fixed set of journal styles and the instruction
// text prepended to the user's writing for each of them.
package styles

import (
	"errors"
	"slices"
	"strings"
)

// ID identifies a journal style.
type ID string

// Valid style identifiers.
const (
	Structured ID = "structured"
	Reflective ID = "reflective"
	Bullet     ID = "bullet"
	Narrative  ID = "narrative"
)

// ErrInvalidStyle is returned for identifiers outside the fixed set.
var ErrInvalidStyle = errors.New("style must be structured, reflective, bullet, or narrative")

// Template is the immutable definition of one style.
type Template struct {
	ID          ID
	Name        string
	Description string
	Prompt      string
}

var ids = []ID{Structured, Reflective, Bullet, Narrative}

var templates = map[ID]Template{
	Structured: {
		ID:          Structured,
		Name:        "Estructurado",
		Description: "Organiza el contenido en secciones claras",
		Prompt: `Transforma el siguiente texto en una entrada de diario estructurada en español.
Incluye:
- Un título significativo basado en el contenido
- Secciones organizadas (Resumen del día, Logros, Reflexiones, Pendientes si aplica)
- Tags sugeridos al final (formato: #tag1 #tag2)
- Mantén el tono personal pero organizado
- Usa formato Markdown

Texto a transformar:`,
	},
	Reflective: {
		ID:          Reflective,
		Name:        "Reflexivo",
		Description: "Enfocado en emociones y aprendizajes",
		Prompt: `Transforma el siguiente texto en una entrada de diario reflexiva en español.
Incluye:
- Un título que capture la esencia emocional
- Sección de "Cómo me sentí"
- Sección de "Qué aprendí"
- Sección de "Gratitud" (extrae cosas positivas mencionadas)
- Tags emocionales sugeridos
- Usa formato Markdown

Texto a transformar:`,
	},
	Bullet: {
		ID:          Bullet,
		Name:        "Bullet Journal",
		Description: "Formato conciso con viñetas",
		Prompt: `Transforma el siguiente texto en formato bullet journal en español.
Incluye:
- Título breve
- Bullets organizados por categoría (tareas •, eventos ○, notas -)
- Prioridades marcadas con *
- Tags relevantes al final
- Mantén todo muy conciso
- Usa formato Markdown

Texto a transformar:`,
	},
	Narrative: {
		ID:          Narrative,
		Name:        "Narrativo",
		Description: "Estilo de historia personal",
		Prompt: `Transforma el siguiente texto en una narrativa personal fluida en español.
Incluye:
- Un título evocador
- Redacción en primera persona
- Párrafos bien estructurados
- Transiciones suaves entre ideas
- Tags temáticos al final
- Usa formato Markdown

Texto a transformar:`,
	},
}

// Lookup returns the template for a style.
// Returns ErrInvalidStyle if the id is not recognized.
func Lookup(id ID) (Template, error) {
	t, ok := templates[id]
	if !ok {
		return Template{}, ErrInvalidStyle
	}
	return t, nil
}

// Parse validates a string as a known style id. Matching ignores case and
// surrounding whitespace.
func Parse(s string) (ID, error) {
	v := ID(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(ids, v) {
		return "", ErrInvalidStyle
	}
	return v, nil
}

// IDs returns the style identifiers in display order.
func IDs() []ID {
	return slices.Clone(ids)
}

// All returns every template in display order.
func All() []Template {
	out := make([]Template, 0, len(ids))
	for _, id := range ids {
		out = append(out, templates[id])
	}
	return out
}

// Label is the "Name - Description" text shown in style pickers.
func (t Template) Label() string {
	return t.Name + " - " + t.Description
}
