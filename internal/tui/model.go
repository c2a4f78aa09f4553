// Package tui renders the journal wizard as a Bubble Tea program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/suykerbuyk/vibe-journal/internal/sink"
	"github.com/suykerbuyk/vibe-journal/internal/styles"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
	"github.com/suykerbuyk/vibe-journal/internal/wizard"
)

const defaultWidth = 80

// Result reports how the dialog ended. Action is ActionNone when the user
// closed it without saving or inserting.
type Result struct {
	Action   wizard.Action
	Location string
}

type outcomeMsg wizard.Outcome

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeWarn
	noticeError
)

// Model is the Bubble Tea model driving one wizard session. Network and
// file work runs in commands; only Update touches the session.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *wizard.Controller
	keys   keyMap
	log    *slog.Logger

	source  textarea.Model
	editor  textarea.Model
	answers []textarea.Model
	focus   int
	spinner spinner.Model
	preview bool

	shown      wizard.Step
	notice     string
	noticeKind noticeKind
	width      int
	done       Result
}

// New builds the model for ctrl's session. Closing the dialog cancels the
// context handed to in-flight actions.
func New(ctx context.Context, ctrl *wizard.Controller, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		ctrl:    ctrl,
		keys:    newKeyMap(),
		log:     log,
		source:  newArea("Escribe o pega tu texto aquí... Puede ser desordenado, con ideas sueltas, lo que quieras.", 8, defaultWidth),
		editor:  newArea("", 12, defaultWidth),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
		shown:   -1,
		width:   defaultWidth,
	}
	m.sync()
	return m
}

// Run shows the dialog until the entry is saved, inserted or the user
// closes it.
func Run(ctx context.Context, ctrl *wizard.Controller, log *slog.Logger, opts ...tea.ProgramOption) (Result, error) {
	m := New(ctx, ctrl, log)
	defer m.cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return Result{}, err
	}
	return final.(*Model).done, nil
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil
	case outcomeMsg:
		return m, m.finish(wizard.Outcome(msg))
	case spinner.TickMsg:
		if !m.session().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.updateFocused(msg)
}

func (m *Model) session() *wizard.Session {
	return m.ctrl.Session()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.close()
		return tea.Quit
	}
	// Pending actions block further input.
	if m.session().Busy() {
		return nil
	}
	m.notice = ""

	step := m.session().Step()
	switch {
	case key.Matches(msg, m.keys.Next):
		switch step {
		case wizard.StepInput:
			return m.dispatch(wizard.ActionTransform)
		case wizard.StepResult:
			return m.dispatch(wizard.ActionDeepen)
		case wizard.StepQuestions:
			return m.dispatch(wizard.ActionEnrich)
		}
		return nil
	case key.Matches(msg, m.keys.Skip) && (step == wizard.StepResult || step == wizard.StepQuestions):
		m.commit()
		if err := m.session().Skip(); err != nil {
			m.fail(wizard.ActionNone, err)
			return nil
		}
		return m.sync()
	case key.Matches(msg, m.keys.Cycle, m.keys.CycleBack) && step == wizard.StepInput:
		delta := 1
		if key.Matches(msg, m.keys.CycleBack) {
			delta = -1
		}
		m.cycleStyle(delta)
		return nil
	case key.Matches(msg, m.keys.Cycle, m.keys.CycleBack) && step == wizard.StepQuestions:
		delta := 1
		if key.Matches(msg, m.keys.CycleBack) {
			delta = -1
		}
		return m.focusAnswer(delta)
	case step == wizard.StepFinal && key.Matches(msg, m.keys.Copy):
		return m.dispatch(wizard.ActionCopy)
	case step == wizard.StepFinal && key.Matches(msg, m.keys.Insert):
		return m.dispatch(wizard.ActionInsert)
	case step == wizard.StepFinal && key.Matches(msg, m.keys.Save):
		return m.dispatch(wizard.ActionSave)
	case step == wizard.StepFinal && key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
		return nil
	}

	if m.preview {
		return nil
	}
	return m.updateFocused(msg)
}

// dispatch starts a. The returned command runs the action's I/O and reports
// back with an outcomeMsg.
func (m *Model) dispatch(a wizard.Action) tea.Cmd {
	m.commit()
	task, err := m.ctrl.Dispatch(a)
	if err != nil {
		m.fail(a, err)
		return nil
	}
	if task == nil {
		return m.sync()
	}

	m.log.Info("action started", "action", a.String())
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return outcomeMsg(task(ctx))
	})
}

func (m *Model) finish(o wizard.Outcome) tea.Cmd {
	if m.session().Step() == wizard.StepClosed {
		return nil
	}
	if err := m.ctrl.Apply(o); err != nil {
		m.fail(o.Action, err)
		return nil
	}
	m.log.Info("action finished", "action", o.Action.String())

	switch o.Action {
	case wizard.ActionCopy:
		m.setNotice(noticeInfo, "Copiado al portapapeles")
	case wizard.ActionInsert, wizard.ActionSave:
		m.done = Result{Action: o.Action, Location: o.Location}
		m.cancel()
		return tea.Quit
	}
	return m.sync()
}

func (m *Model) fail(a wizard.Action, err error) {
	switch {
	case errors.Is(err, transform.ErrEmptyInput):
		m.setNotice(noticeWarn, "Ingresa texto para transformar")
	case errors.Is(err, sink.ErrNoActiveNote):
		m.setNotice(noticeWarn, "No hay nota activa")
	default:
		m.setNotice(noticeError, "Error: "+err.Error())
	}
	m.log.Warn("warning: action failed", "action", a.String(), "err", err)
}

func (m *Model) setNotice(kind noticeKind, text string) {
	m.notice = text
	m.noticeKind = kind
}

func (m *Model) close() {
	m.session().Close()
	m.cancel()
}

// commit copies the widgets' text into the session.
func (m *Model) commit() {
	s := m.session()
	switch s.Step() {
	case wizard.StepInput:
		_ = s.SetSource(m.source.Value())
	case wizard.StepResult, wizard.StepFinal:
		_ = s.SetText(m.editor.Value())
	case wizard.StepQuestions:
		for i, ta := range m.answers {
			_ = s.SetAnswer(i, ta.Value())
		}
	}
}

// sync reloads the widgets after the session moved to another step.
func (m *Model) sync() tea.Cmd {
	s := m.session()
	if s.Step() == m.shown {
		return nil
	}
	m.shown = s.Step()
	m.preview = false
	m.source.Blur()
	m.editor.Blur()

	switch m.shown {
	case wizard.StepInput:
		m.source.SetValue(s.Source())
		return m.source.Focus()
	case wizard.StepResult, wizard.StepFinal:
		m.editor.SetValue(s.Text())
		return m.editor.Focus()
	case wizard.StepQuestions:
		qs := s.Questions()
		m.answers = make([]textarea.Model, len(qs))
		for i := range qs {
			m.answers[i] = newArea("Tu respuesta (opcional)...", 3, m.width)
		}
		m.focus = 0
		if len(m.answers) > 0 {
			return m.answers[0].Focus()
		}
	}
	return nil
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.shown {
	case wizard.StepInput:
		m.source, cmd = m.source.Update(msg)
	case wizard.StepResult, wizard.StepFinal:
		m.editor, cmd = m.editor.Update(msg)
	case wizard.StepQuestions:
		if m.focus < len(m.answers) {
			m.answers[m.focus], cmd = m.answers[m.focus].Update(msg)
		}
	}
	return cmd
}

func (m *Model) cycleStyle(delta int) {
	ids := styles.IDs()
	i := slices.Index(ids, m.session().Style())
	next := ids[(i+delta+len(ids))%len(ids)]
	if err := m.session().SetStyle(next); err != nil {
		m.fail(wizard.ActionNone, err)
	}
}

func (m *Model) focusAnswer(delta int) tea.Cmd {
	if len(m.answers) == 0 {
		return nil
	}
	m.answers[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.answers)) % len(m.answers)
	return m.answers[m.focus].Focus()
}

func (m *Model) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	w := areaWidth(width)
	m.source.SetWidth(w)
	m.editor.SetWidth(w)
	for i := range m.answers {
		m.answers[i].SetWidth(w)
	}
}

func (m *Model) View() string {
	s := m.session()
	if s.Step() == wizard.StepClosed {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("✨ Journal Transformer"))
	b.WriteString("\n")

	switch m.shown {
	case wizard.StepInput:
		b.WriteString(labelStyle.Render("Texto a transformar:") + "\n")
		b.WriteString(focusedBoxStyle.Render(m.source.View()) + "\n\n")
		b.WriteString(labelStyle.Render("Estilo de salida:") + "\n")
		b.WriteString(m.styleList() + "\n")
	case wizard.StepResult:
		b.WriteString(labelStyle.Render("📝 Paso 1 - Resultado:") + "\n")
		b.WriteString(focusedBoxStyle.Render(m.editor.View()) + "\n")
	case wizard.StepQuestions:
		b.WriteString(labelStyle.Render("🤔 Paso 2 - Preguntas para profundizar:") + "\n")
		b.WriteString(hintStyle.Render("Responde las que quieras para enriquecer tu entrada:") + "\n\n")
		for i, q := range s.Questions() {
			b.WriteString(questionLabel(i, q) + "\n")
			box := boxStyle
			if i == m.focus {
				box = focusedBoxStyle
			}
			if i < len(m.answers) {
				b.WriteString(box.Render(m.answers[i].View()) + "\n")
			}
		}
	case wizard.StepFinal:
		b.WriteString(labelStyle.Render("✅ Entrada final:") + "\n")
		b.WriteString(focusedBoxStyle.Render(m.finalBody()) + "\n")
	}

	b.WriteString("\n" + m.statusLine() + "\n")
	b.WriteString(hintStyle.Render(m.hintLine()))
	return b.String()
}

func (m *Model) finalBody() string {
	if !m.preview {
		return m.editor.View()
	}
	out, err := renderMarkdown(m.editor.Value(), areaWidth(m.width))
	if err != nil {
		m.log.Warn("warning: markdown preview failed", "err", err)
		return m.editor.Value()
	}
	return strings.TrimRight(out, "\n")
}

func (m *Model) styleList() string {
	current := m.session().Style()
	var lines []string
	for _, t := range styles.All() {
		if t.ID == current {
			lines = append(lines, styleSelected.Render("● "+t.Label()))
			continue
		}
		lines = append(lines, styleItem.Render("○ "+t.Label()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusLine() string {
	s := m.session()
	if s.Busy() {
		return m.spinner.View() + " " + busyStyle.Render(busyLabel(s.Pending()))
	}
	switch m.noticeKind {
	case noticeWarn, noticeError:
		return errorStyle.Render(m.notice)
	}
	return noticeStyle.Render(m.notice)
}

func (m *Model) hintLine() string {
	k := m.keys
	switch m.shown {
	case wizard.StepInput:
		return hint(action{k.Next, "transformar"}, action{k.Cycle, "estilo"}, action{k.Quit, "cerrar"})
	case wizard.StepResult:
		return hint(action{k.Next, "profundizar"}, action{k.Skip, "saltar y guardar"}, action{k.Quit, "cerrar"})
	case wizard.StepQuestions:
		return hint(action{k.Next, "enriquecer"}, action{k.Cycle, "siguiente pregunta"}, action{k.Skip, "saltar"}, action{k.Quit, "cerrar"})
	case wizard.StepFinal:
		return hint(action{k.Save, "guardar en la nota del día"}, action{k.Insert, "insertar en nota"},
			action{k.Copy, "copiar"}, action{k.Preview, "vista previa"}, action{k.Quit, "cerrar"})
	}
	return ""
}

func busyLabel(a wizard.Action) string {
	switch a {
	case wizard.ActionTransform:
		return "Procesando con IA..."
	case wizard.ActionDeepen:
		return "Generando preguntas reflexivas..."
	case wizard.ActionEnrich:
		return "Enriqueciendo entrada..."
	case wizard.ActionCopy:
		return "Copiando..."
	case wizard.ActionInsert:
		return "Insertando..."
	case wizard.ActionSave:
		return "Guardando..."
	}
	return ""
}

func questionLabel(i int, q string) string {
	return labelStyle.Render(fmt.Sprintf("%d. %s", i+1, q))
}

func newArea(placeholder string, height, width int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(height)
	ta.SetWidth(areaWidth(width))
	return ta
}

func areaWidth(width int) int {
	// Border and padding take four columns.
	if width-4 < 20 {
		return 20
	}
	return width - 4
}
