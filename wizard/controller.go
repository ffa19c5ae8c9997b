// Package wizard holds the multi-step form state machine shared by every
// intake flow: an ordered list of steps, the records entered so far, and
// per-step validation results.
package wizard

import (
	"context"
	"errors"
	"fmt"
)

// StepID identifies one page of a wizard.
type StepID string

// Record is the data entered on a single step. Each concrete record type
// belongs to exactly one step.
type Record interface {
	Step() StepID
}

// Data maps every submitted step to its latest record.
type Data map[StepID]Record

// Validator decides whether a record may advance the wizard.
type Validator func(step StepID, rec Record) bool

// Submitter receives the accumulated data once the last step is accepted.
type Submitter interface {
	Submit(ctx context.Context, data Data) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, data Data) error

func (f SubmitterFunc) Submit(ctx context.Context, data Data) error {
	return f(ctx, data)
}

// Result is the state a caller renders after an operation.
type Result struct {
	Index    int
	Errors   map[StepID]bool
	Complete bool
}

// State is the mutable part of a wizard. It is only changed through
// Controller methods; Snapshot hands out copies.
type State struct {
	Index    int
	Data     Data
	Errors   map[StepID]bool
	Complete bool
}

type Option func(*Controller)

// WithSubmitter sets the collaborator that receives the final data.
func WithSubmitter(s Submitter) Option {
	return func(c *Controller) {
		c.submitter = s
	}
}

// Controller sequences steps and gates advancement on validation.
// On completion the index stays at the last step; Complete reports the
// terminal state.
type Controller struct {
	steps     []StepID
	validate  Validator
	submitter Submitter
	state     State
}

func New(steps []StepID, validate Validator, opts ...Option) (*Controller, error) {
	if len(steps) == 0 {
		return nil, errors.New("wizard needs at least one step")
	}
	if validate == nil {
		return nil, errors.New("wizard needs a validator")
	}
	seen := make(map[StepID]struct{}, len(steps))
	for _, s := range steps {
		if _, ok := seen[s]; ok {
			return nil, fmt.Errorf("duplicate step %q", s)
		}
		seen[s] = struct{}{}
	}

	c := &Controller{
		steps:    append([]StepID(nil), steps...),
		validate: validate,
		state: State{
			Data:   make(Data),
			Errors: make(map[StepID]bool),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SubmitStep stores rec as the record of the current step and advances when
// it validates. An invalid record is not an error: it is reported through
// Result.Errors and the index stays put.
func (c *Controller) SubmitStep(ctx context.Context, step StepID, rec Record) (Result, error) {
	if c.state.Complete {
		return c.result(), ErrComplete
	}
	current := c.steps[c.state.Index]
	if step != current {
		return c.result(), fmt.Errorf("%w: got %q, current is %q", ErrStepMismatch, step, current)
	}
	if rec == nil || rec.Step() != step {
		return c.result(), fmt.Errorf("%w: record does not belong to %q", ErrStepMismatch, step)
	}

	c.state.Data[step] = rec
	if !c.validate(step, rec) {
		c.state.Errors[step] = true
		return c.result(), nil
	}
	c.state.Errors[step] = false

	if c.state.Index < len(c.steps)-1 {
		c.state.Index++
		return c.result(), nil
	}

	if c.submitter != nil {
		if err := c.submitter.Submit(ctx, c.Data()); err != nil {
			return c.result(), fmt.Errorf("%w: %w", ErrSubmit, err)
		}
	}
	c.state.Complete = true
	return c.result(), nil
}

// JumpToStep moves to any step regardless of validation state.
func (c *Controller) JumpToStep(index int) (Result, error) {
	if c.state.Complete {
		return c.result(), ErrComplete
	}
	if index < 0 || index >= len(c.steps) {
		return c.result(), &OutOfRangeError{Index: index, Len: len(c.steps)}
	}
	c.state.Index = index
	return c.result(), nil
}

// PreviousStep moves back one step. It does nothing on the first step.
func (c *Controller) PreviousStep() (Result, error) {
	if c.state.Index == 0 && !c.state.Complete {
		return c.result(), nil
	}
	return c.JumpToStep(c.state.Index - 1)
}

func (c *Controller) Steps() []StepID {
	return append([]StepID(nil), c.steps...)
}

func (c *Controller) Len() int { return len(c.steps) }

func (c *Controller) Index() int { return c.state.Index }

func (c *Controller) Current() StepID { return c.steps[c.state.Index] }

func (c *Controller) Complete() bool { return c.state.Complete }

// Record returns the last record stored for step, if any.
func (c *Controller) Record(step StepID) (Record, bool) {
	rec, ok := c.state.Data[step]
	return rec, ok
}

// HasError reports whether the latest submission of step failed validation.
func (c *Controller) HasError(step StepID) bool {
	return c.state.Errors[step]
}

// Submitted reports whether step has been submitted at least once.
func (c *Controller) Submitted(step StepID) bool {
	_, ok := c.state.Errors[step]
	return ok
}

func (c *Controller) Data() Data {
	out := make(Data, len(c.state.Data))
	for k, v := range c.state.Data {
		out[k] = v
	}
	return out
}

func (c *Controller) Errors() map[StepID]bool {
	out := make(map[StepID]bool, len(c.state.Errors))
	for k, v := range c.state.Errors {
		out[k] = v
	}
	return out
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	return State{
		Index:    c.state.Index,
		Data:     c.Data(),
		Errors:   c.Errors(),
		Complete: c.state.Complete,
	}
}

func (c *Controller) result() Result {
	return Result{
		Index:    c.state.Index,
		Errors:   c.Errors(),
		Complete: c.state.Complete,
	}
}
