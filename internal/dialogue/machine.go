// Package dialogue drives a restaurant recommendation conversation as a
// finite-state machine over a single DialogueContext.
package dialogue

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/domain"
)

// ErrInactive is returned by Step once the session has ended.
var ErrInactive = stderrors.New("dialogue session is no longer active")

// Dependencies are the collaborators of one session. Transcript and Rand
// are optional.
type Dependencies struct {
	Catalog    Catalog
	Extractor  Extractor
	Reasoner   Reasoner
	Classifier Classifier
	Provider   Provider
	Templates  *Templates
	Transcript Transcript
	Rand       *rand.Rand
	Logger     *zap.Logger
}

func (d Dependencies) validate() error {
	switch {
	case d.Catalog == nil:
		return fmt.Errorf("dialogue: catalog is required")
	case d.Extractor == nil:
		return fmt.Errorf("dialogue: extractor is required")
	case d.Reasoner == nil:
		return fmt.Errorf("dialogue: reasoner is required")
	case d.Classifier == nil:
		return fmt.Errorf("dialogue: classifier is required")
	case d.Provider == nil:
		return fmt.Errorf("dialogue: provider is required")
	case d.Templates == nil:
		return fmt.Errorf("dialogue: templates are required")
	}
	return nil
}

type Option func(*Machine)

// WithConfirmMatches requires every extracted slot value to be confirmed by
// the user before it is stored.
func WithConfirmMatches(enabled bool) Option {
	return func(m *Machine) {
		m.confirmMatches = enabled
	}
}

// WithStart overrides the initial state.
func WithStart(name StateName) Option {
	return func(m *Machine) {
		m.current = name
	}
}

// WithContext starts the session from an existing context.
func WithContext(dc *domain.DialogueContext) Option {
	return func(m *Machine) {
		m.dc = dc
	}
}

// Machine is not safe for concurrent use; one goroutine owns a session.
type Machine struct {
	deps Dependencies

	states         map[StateName]*State
	current        StateName
	dc             *domain.DialogueContext
	active         bool
	confirmMatches bool
}

func NewMachine(deps Dependencies, opts ...Option) (*Machine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Transcript == nil {
		deps.Transcript = nopTranscript{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	m := &Machine{
		deps:    deps,
		states:  buildGraph(),
		current: StateWelcome,
		dc:      domain.NewDialogueContext(),
		active:  true,
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, ok := m.states[m.current]; !ok {
		return nil, fmt.Errorf("dialogue: unknown start state %q", m.current)
	}
	return m, nil
}

func (m *Machine) Current() StateName {
	return m.current
}

func (m *Machine) Context() *domain.DialogueContext {
	return m.dc
}

func (m *Machine) Active() bool {
	return m.active
}

// Step runs the current state's action once and follows the first matching
// transition. With no matching transition the state is kept.
func (m *Machine) Step(ctx context.Context) error {
	if !m.active {
		return ErrInactive
	}

	state := m.states[m.current]
	if observer, ok := m.deps.Provider.(StateObserver); ok {
		observer.EnterState(state.Name.String())
	}

	act, err := state.Action(ctx, m)
	if err != nil {
		return fmt.Errorf("state %s: %w", state.Name, err)
	}

	if state.Terminal {
		return nil
	}

	next, ok := state.next(act, m.dc)
	if !ok {
		m.deps.Logger.Info("No valid transition, staying in state",
			zap.String("state", state.Name.String()),
			zap.String("act", act.String()),
		)
		return nil
	}

	m.deps.Logger.Debug("State transition",
		zap.String("state", state.Name.String()),
		zap.String("act", act.String()),
		zap.String("next_state", next.String()),
	)
	m.current = next
	return nil
}

// Run steps until the session ends, ctx is cancelled or a turn fails.
func (m *Machine) Run(ctx context.Context) error {
	for m.active {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
