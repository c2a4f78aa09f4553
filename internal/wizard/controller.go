package wizard

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	"github.com/suykerbuyk/vibe-journal/internal/styles"
	"github.com/suykerbuyk/vibe-journal/internal/transform"
)

// ErrUnavailable is returned when an action's collaborator was not provided.
var ErrUnavailable = errors.New("action not available in this session")

// Transformer is the model-facing half of the dialog.
type Transformer interface {
	Transform(ctx context.Context, req transform.Request) (transform.Result, error)
	GenerateQuestions(ctx context.Context, entry string) ([]string, error)
	Enrich(ctx context.Context, original string, questions, answers []string) (transform.Result, error)
}

type Clipboard interface {
	WriteAll(text string) error
}

// Inserter places text into the note the user is working on.
type Inserter interface {
	Insert(ctx context.Context, text string) error
}

// Saver appends an entry to the journal and reports where it went.
type Saver interface {
	Save(ctx context.Context, content string) (string, error)
}

// styledSaver is implemented by savers that record the entry's style.
type styledSaver interface {
	SaveStyled(ctx context.Context, content string, style styles.ID) (string, error)
}

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Deps are the collaborators a Controller drives. Nil members make their
// actions fail with ErrUnavailable.
type Deps struct {
	Transformer Transformer
	Clipboard   Clipboard
	Inserter    Inserter
	Saver       Saver
	Override    string // custom prompt replacing the style prompt
}

// Task performs an action's I/O. It must not touch the session.
type Task func(ctx context.Context) Outcome

// Controller binds a Session to its collaborators.
type Controller struct {
	session *Session
	deps    Deps
}

func NewController(s *Session, deps Deps) *Controller {
	return &Controller{session: s, deps: deps}
}

func (c *Controller) Session() *Session { return c.session }

// Dispatch starts action a. The returned task is nil when the action
// finished without work.
func (c *Controller) Dispatch(a Action) (Task, error) {
	in, err := c.session.Begin(a)
	if err != nil || in == nil {
		return nil, err
	}
	deps := c.deps
	input := *in
	return func(ctx context.Context) Outcome {
		return run(ctx, deps, input)
	}, nil
}

// Apply feeds a task's outcome back into the session.
func (c *Controller) Apply(o Outcome) error {
	return c.session.Finish(o)
}

// Do runs action a to completion on the calling goroutine.
func (c *Controller) Do(ctx context.Context, a Action) error {
	task, err := c.Dispatch(a)
	if err != nil || task == nil {
		return err
	}
	return c.Apply(task(ctx))
}

func run(ctx context.Context, deps Deps, in Input) Outcome {
	out := Outcome{Action: in.Action}

	switch in.Action {
	case ActionTransform, ActionDeepen, ActionEnrich:
		if deps.Transformer == nil {
			out.Err = ErrUnavailable
			return out
		}
	}

	switch in.Action {
	case ActionTransform:
		res, err := deps.Transformer.Transform(ctx, transform.Request{
			Source:   in.Source,
			Style:    in.Style,
			Override: deps.Override,
		})
		out.Text, out.Err = res.Text, err
	case ActionDeepen:
		out.Questions, out.Err = deps.Transformer.GenerateQuestions(ctx, in.Text)
	case ActionEnrich:
		res, err := deps.Transformer.Enrich(ctx, in.Text, in.Questions, in.Answers)
		out.Text, out.Err = res.Text, err
	case ActionCopy:
		if deps.Clipboard == nil {
			out.Err = ErrUnavailable
			break
		}
		out.Err = deps.Clipboard.WriteAll(in.Text)
	case ActionInsert:
		if deps.Inserter == nil {
			out.Err = ErrUnavailable
			break
		}
		out.Err = deps.Inserter.Insert(ctx, in.Text)
	case ActionSave:
		if deps.Saver == nil {
			out.Err = ErrUnavailable
			break
		}
		if ss, ok := deps.Saver.(styledSaver); ok {
			out.Location, out.Err = ss.SaveStyled(ctx, in.Text, in.Style)
			break
		}
		out.Location, out.Err = deps.Saver.Save(ctx, in.Text)
	}
	return out
}
