// Package wizard holds the journal dialog's state machine. It does no I/O:
// a Session only decides which actions are allowed and how their results
// move the dialog forward.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suykerbuyk/vibe-journal/internal/styles"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
)

var (
	ErrBusy        = errors.New("an action is already in progress")
	ErrInvalidStep = errors.New("action not available at this step")
)

// Step is the visible stage of the dialog.
type Step int

const (
	StepInput Step = iota
	StepResult
	StepQuestions
	StepFinal
	StepClosed
)

func (s Step) String() string {
	switch s {
	case StepInput:
		return "input"
	case StepResult:
		return "result"
	case StepQuestions:
		return "questions"
	case StepFinal:
		return "final"
	case StepClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Action is a user-triggered operation that may need I/O.
type Action int

const (
	ActionNone Action = iota
	ActionTransform
	ActionDeepen
	ActionEnrich
	ActionCopy
	ActionInsert
	ActionSave
)

func (a Action) String() string {
	switch a {
	case ActionTransform:
		return "transform"
	case ActionDeepen:
		return "deepen"
	case ActionEnrich:
		return "enrich"
	case ActionCopy:
		return "copy"
	case ActionInsert:
		return "insert"
	case ActionSave:
		return "save"
	default:
		return "none"
	}
}

// Input is what an action needs from the session to do its work.
type Input struct {
	Action    Action
	Source    string
	Style     styles.ID
	Text      string
	Questions []string
	Answers   []string
}

// Outcome is the result of an action's work.
type Outcome struct {
	Action    Action
	Text      string   // Transform, Enrich
	Questions []string // Deepen
	Location  string   // Save
	Err       error
}

// Session is one open dialog.
type Session struct {
	step      Step
	source    string
	style     styles.ID
	text      string
	questions []string
	answers   []string
	pending   Action
}

// NewSession starts a dialog at the input step.
func NewSession(source string, style styles.ID) *Session {
	return &Session{step: StepInput, source: source, style: style}
}

func (s *Session) Step() Step { return s.step }
func (s *Session) Source() string { return s.source }
func (s *Session) Style() styles.ID { return s.style }
func (s *Session) Text() string { return s.text }
func (s *Session) Pending() Action { return s.pending }
func (s *Session) Busy() bool { return s.pending != ActionNone }
func (s *Session) Questions() []string { return append([]string(nil), s.questions...) }
func (s *Session) Answers() []string { return append([]string(nil), s.answers...) }

// Begin marks a as pending and returns the work input. A nil Input with a
// nil error means the action completed without any work (Enrich with no
// answers).
func (s *Session) Begin(a Action) (*Input, error) {
	if s.Busy() {
		return nil, ErrBusy
	}
	if !s.allows(a) {
		return nil, fmt.Errorf("%w: %s at %s", ErrInvalidStep, a, s.step)
	}

	in := &Input{Action: a, Style: s.style}
	switch a {
	case ActionTransform:
		if strings.TrimSpace(s.source) == "" {
			return nil, transform.ErrEmptyInput
		}
		in.Source = strings.TrimSpace(s.source)
	case ActionDeepen:
		in.Text = s.text
	case ActionEnrich:
		if allBlank(s.answers) {
			s.step = StepFinal
			return nil, nil
		}
		in.Text = s.text
		in.Questions = s.Questions()
		in.Answers = s.Answers()
	case ActionCopy, ActionInsert, ActionSave:
		in.Text = s.text
	}

	s.pending = a
	return in, nil
}

// Finish applies the outcome of the pending action. Outcomes arriving after
// the dialog closed are dropped. A failed outcome leaves the step unchanged
// and is returned as is.
func (s *Session) Finish(o Outcome) error {
	if s.step == StepClosed {
		return nil
	}
	if s.pending == ActionNone || o.Action != s.pending {
		return fmt.Errorf("%w: no pending %s", ErrInvalidStep, o.Action)
	}
	s.pending = ActionNone

	if o.Err != nil {
		return o.Err
	}

	switch o.Action {
	case ActionTransform:
		s.text = o.Text
		s.step = StepResult
	case ActionDeepen:
		s.questions = append([]string(nil), o.Questions...)
		s.answers = make([]string, len(o.Questions))
		s.step = StepQuestions
	case ActionEnrich:
		s.text = o.Text
		s.step = StepFinal
	case ActionCopy:
	case ActionInsert, ActionSave:
		s.step = StepClosed
	}
	return nil
}

// Skip jumps from the result or questions step straight to the final step,
// keeping the current text.
func (s *Session) Skip() error {
	if s.Busy() {
		return ErrBusy
	}
	if s.step != StepResult && s.step != StepQuestions {
		return fmt.Errorf("%w: skip at %s", ErrInvalidStep, s.step)
	}
	s.step = StepFinal
	return nil
}

// Close discards the dialog. Any pending result is ignored.
func (s *Session) Close() {
	s.step = StepClosed
	s.pending = ActionNone
}

func (s *Session) SetSource(text string) error {
	if err := s.editable(StepInput); err != nil {
		return err
	}
	s.source = text
	return nil
}

func (s *Session) SetStyle(id styles.ID) error {
	if err := s.editable(StepInput); err != nil {
		return err
	}
	if _, err := styles.Lookup(id); err != nil {
		return err
	}
	s.style = id
	return nil
}

// SetText replaces the current text with the user's edits.
func (s *Session) SetText(text string) error {
	if err := s.editable(StepResult, StepFinal); err != nil {
		return err
	}
	s.text = text
	return nil
}

func (s *Session) SetAnswer(i int, answer string) error {
	if err := s.editable(StepQuestions); err != nil {
		return err
	}
	if i < 0 || i >= len(s.answers) {
		return fmt.Errorf("%w: answer %d of %d", ErrInvalidStep, i+1, len(s.answers))
	}
	s.answers[i] = answer
	return nil
}

func (s *Session) editable(steps ...Step) error {
	if s.Busy() {
		return ErrBusy
	}
	for _, st := range steps {
		if s.step == st {
			return nil
		}
	}
	return fmt.Errorf("%w: edit at %s", ErrInvalidStep, s.step)
}

func (s *Session) allows(a Action) bool {
	switch a {
	case ActionTransform:
		return s.step == StepInput
	case ActionDeepen:
		return s.step == StepResult
	case ActionEnrich:
		return s.step == StepQuestions
	case ActionCopy, ActionInsert, ActionSave:
		return s.step == StepFinal
	}
	return false
}

func allBlank(answers []string) bool {
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			return false
		}
	}
	return true
}
