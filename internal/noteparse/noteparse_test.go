package noteparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleNote = `# Resumen del Día

Fui al gimnasio y luego cené con amigos. #salud #amigos

## Momentos Destacados
- Entrenamiento de piernas #salud

---

- Terminé el informe #trabajo
- Llamé a mamá

` + "```" + `
#nocuenta dentro de código
` + "```" + `
`

func TestSplit(t *testing.T) {
	entries := Split(sampleNote)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if !strings.HasPrefix(entries[0], "# Resumen del Día") {
		t.Errorf("entry 0 = %q", entries[0])
	}
	if !strings.HasPrefix(entries[1], "- Terminé el informe") {
		t.Errorf("entry 1 = %q", entries[1])
	}
}

func TestSplit_RoundTripsSeparator(t *testing.T) {
	parts := []string{"uno", "dos\n\ncon párrafo", "tres"}
	got := Split(strings.Join(parts, Separator))
	if strings.Join(got, "|") != strings.Join(parts, "|") {
		t.Errorf("got %q, want %q", got, parts)
	}
}

func TestSplit_Empty(t *testing.T) {
	for _, note := range []string{"", "  \n", Separator} {
		if got := Split(note); len(got) != 0 {
			t.Errorf("Split(%q) = %q, want none", note, got)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{"atx heading", "# Resumen del Día\n\ntexto", "Resumen del Día"},
		{"emphasis inside heading", "## Un día *muy* largo\n", "Un día muy largo"},
		{"heading after text", "intro\n\n### Tarde\n", "Tarde"},
		{"setext heading", "Mañana\n======\n\ncuerpo", "Mañana"},
		{"no heading", "\n- Terminé el informe\n- Llamé", "Terminé el informe"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.entry); got != tt.want {
			t.Errorf("%s: Title = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitle_Truncates(t *testing.T) {
	long := "# " + strings.Repeat("palabra ", 30)
	got := Title(long)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis: %q", got)
	}
	if n := len([]rune(got)); n > maxTitleRunes {
		t.Errorf("title runes = %d, want <= %d", n, maxTitleRunes)
	}
}

func TestTags(t *testing.T) {
	got := Tags(sampleNote)
	want := []string{"salud", "amigos", "trabajo"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Tags = %q, want %q", got, want)
	}
}

func TestTags_IgnoresHeadingsAndAnchors(t *testing.T) {
	got := Tags("# Título\n## Sección #no\nver issue#12 y #Proyecto/Alpha")
	if len(got) != 1 || got[0] != "proyecto/alpha" {
		t.Errorf("Tags = %q", got)
	}
}

func TestDateFromPath(t *testing.T) {
	tests := []struct {
		path string
		date string
		ok   bool
	}{
		{"journal/daily/2026-03-01.md", "2026-03-01", true},
		{"/abs/2026-12-31.md", "2026-12-31", true},
		{"2026-13-01.md", "", false},
		{"_README.md", "", false},
		{"2026-03-01.txt", "", false},
	}
	for _, tt := range tests {
		date, ok := DateFromPath(tt.path)
		if date != tt.date || ok != tt.ok {
			t.Errorf("DateFromPath(%q) = %q, %v; want %q, %v", tt.path, date, ok, tt.date, tt.ok)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2026-03-01.md")
	if err := os.WriteFile(path, []byte(sampleNote), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Date != "2026-03-01" || entries[0].Title != "Resumen del Día" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if strings.Join(entries[0].Tags, ",") != "salud,amigos" {
		t.Errorf("entry 0 tags = %q", entries[0].Tags)
	}
	if entries[1].Title != "Terminé el informe #trabajo" {
		t.Errorf("entry 1 title = %q", entries[1].Title)
	}
}

func TestParseFile_BadName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	os.WriteFile(path, []byte("x"), 0o644)
	if _, err := ParseFile(path); err == nil {
		t.Error("expected error for non-date file name")
	}
}
