// Package wizard drives the multi-step registration flow: it tracks the
// current step, collects a flat personal record and, on completion, hands the
// record to persistence and stages a portfolio summary for the next flow.
package wizard

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"github.com/Lllllllleong/portfolioflow/internal/navigation"
	"github.com/google/uuid"
)

// ProfileSaver persists a completed record under ownerID.
type ProfileSaver interface {
	SaveProfile(ctx context.Context, ownerID string, record PersonalRecord) error
}

// ProfileSaverFunc adapts a function to ProfileSaver.
type ProfileSaverFunc func(ctx context.Context, ownerID string, record PersonalRecord) error

func (f ProfileSaverFunc) SaveProfile(ctx context.Context, ownerID string, record PersonalRecord) error {
	return f(ctx, ownerID, record)
}

// Stager stages the portfolio summary for the downstream flow.
// *handoff.Channel[PortfolioProfile] implements it.
type Stager interface {
	Stage(ctx context.Context, p PortfolioProfile) (handoff.Ticket, error)
}

// Completion is the result of Complete.
type Completion struct {
	OwnerID string           `json:"ownerId"`
	Profile PortfolioProfile `json:"profile"`
	Ticket  *handoff.Ticket  `json:"ticket,omitempty"`
	Route   string           `json:"route,omitempty"`
}

// Controller is the wizard state machine. States are step IDs 1..N and the
// initial state is 1. It is not safe for concurrent use.
type Controller struct {
	steps     []Step
	current   int
	record    PersonalRecord
	ownerID   string
	saver     ProfileSaver
	stager    Stager
	navigator navigation.Navigator
	route     string
	newID     func() string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSteps replaces RegistrationSteps. Step IDs are renumbered 1..N.
func WithSteps(steps []Step) ControllerOption {
	return func(c *Controller) {
		if len(steps) > 0 {
			c.steps = append([]Step(nil), steps...)
		}
	}
}

// WithRecord seeds the personal record.
func WithRecord(r PersonalRecord) ControllerOption {
	return func(c *Controller) { c.record = r.Clone() }
}

// WithOwnerID fixes the owner identifier used by Complete.
func WithOwnerID(id string) ControllerOption {
	return func(c *Controller) { c.ownerID = id }
}

// WithProfileSaver sets the persistence collaborator.
func WithProfileSaver(s ProfileSaver) ControllerOption {
	return func(c *Controller) { c.saver = s }
}

// WithStager sets the handoff collaborator.
func WithStager(s Stager) ControllerOption {
	return func(c *Controller) { c.stager = s }
}

// WithNavigator navigates to route once Complete succeeds.
func WithNavigator(n navigation.Navigator, route string) ControllerOption {
	return func(c *Controller) {
		c.navigator = n
		c.route = route
	}
}

// WithIDGenerator replaces the UUID generator used for new owner IDs.
func WithIDGenerator(gen func() string) ControllerOption {
	return func(c *Controller) { c.newID = gen }
}

// New returns a Controller positioned on step 1.
func New(opts ...ControllerOption) *Controller {
	c := &Controller{
		steps:  RegistrationSteps(),
		record: PersonalRecord{},
		route:  navigation.PortfolioForm,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i := range c.steps {
		c.steps[i].ID = i + 1
	}
	c.current = 1
	return c
}

// Steps returns the step definitions.
func (c *Controller) Steps() []Step {
	out := make([]Step, len(c.steps))
	copy(out, c.steps)
	return out
}

// Current returns the current step.
func (c *Controller) Current() Step {
	return c.steps[c.current-1]
}

// IsFirst reports whether the wizard is on step 1.
func (c *Controller) IsFirst() bool { return c.current == 1 }

// IsLast reports whether the wizard is on the final step.
func (c *Controller) IsLast() bool { return c.current == len(c.steps) }

// Advance moves forward one step. It is a no-op on the last step.
func (c *Controller) Advance() {
	if c.current < len(c.steps) {
		c.current++
	}
}

// Retreat moves back one step. It is a no-op on the first step.
func (c *Controller) Retreat() {
	if c.current > 1 {
		c.current--
	}
}

// JumpTo moves directly to step id.
func (c *Controller) JumpTo(id int) error {
	if id < 1 || id > len(c.steps) {
		return &InvalidStepError{Step: id, Max: len(c.steps)}
	}
	c.current = id
	return nil
}

// UpdateField overwrites one field of the record. No validation happens here.
func (c *Controller) UpdateField(name, value string) {
	c.record[name] = value
}

// Field returns the current value of name.
func (c *Controller) Field(name string) string {
	return c.record[name]
}

// SetRecord replaces the whole record with a copy of r.
func (c *Controller) SetRecord(r PersonalRecord) {
	c.record = r.Clone()
}

// Record returns a copy of the personal record.
func (c *Controller) Record() PersonalRecord {
	return c.record.Clone()
}

// ProgressFraction returns current/total, in (0, 1].
func (c *Controller) ProgressFraction() float64 {
	return float64(c.current) / float64(len(c.steps))
}

// OwnerID returns the owner identifier, empty until set or completed.
func (c *Controller) OwnerID() string {
	return c.ownerID
}

// Complete persists the record, stages the portfolio summary and navigates.
// A persistence failure stops everything and returns *ExternalWriteError.
// Staging is best-effort: a failure is logged and Completion.Ticket is nil.
func (c *Controller) Complete(ctx context.Context) (*Completion, error) {
	ownerID := c.ownerID
	if ownerID == "" {
		ownerID = c.newID()
	}
	logCtx := slog.With("ownerId", ownerID, "step", c.current)

	if c.saver != nil {
		if err := c.saver.SaveProfile(ctx, ownerID, c.record.Clone()); err != nil {
			logCtx.Error("Failed to save registration profile", "error", err)
			return nil, &ExternalWriteError{OwnerID: ownerID, Err: err}
		}
	}
	c.ownerID = ownerID

	done := &Completion{
		OwnerID: ownerID,
		Profile: ProfileFromRecord(ownerID, c.record),
	}
	if c.stager != nil {
		ticket, err := c.stager.Stage(ctx, done.Profile)
		if err != nil {
			logCtx.Warn("Failed to stage portfolio handoff. Continuing without it.", "error", err)
		} else {
			done.Ticket = &ticket
		}
	}

	if c.navigator != nil && c.route != "" {
		c.navigator.NavigateTo(c.route)
		done.Route = c.route
	}
	logCtx.Info("Registration complete.", "staged", done.Ticket != nil)
	return done, nil
}
