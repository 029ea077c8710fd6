package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/gcp"
	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/navigation"
	"github.com/Lllllllleong/portfolioflow/internal/wizard"
	"golang.org/x/crypto/bcrypt"
)

// RegistrationConfig holds configuration for the registration service.
type RegistrationConfig struct {
	UsersCollection string
	BcryptCost      int
	PasswordPepper  string
}

// RegistrationFunction replays wizard actions and completes registrations.
type RegistrationFunction struct {
	docs    docstore.Store
	channel *handoff.Channel[wizard.PortfolioProfile]
	config  RegistrationConfig
	now     func() time.Time
}

// LoadRegistrationConfig reads BCRYPT_COST, PASSWORD_PEPPER and USERS_COLLECTION.
func LoadRegistrationConfig() (*RegistrationConfig, error) {
	cost, err := strconv.Atoi(gcp.GetEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("BCRYPT_COST is not a number: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &RegistrationConfig{
		UsersCollection: gcp.GetEnv("USERS_COLLECTION", models.DefaultUsersCollection),
		BcryptCost:      cost,
		PasswordPepper:  gcp.GetEnv("PASSWORD_PEPPER", ""),
	}, nil
}

// NewRegistration creates a RegistrationFunction from the environment.
func NewRegistration(ctx context.Context) (*RegistrationFunction, error) {
	config, err := LoadRegistrationConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	backend, err := NewBackendFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return NewRegistrationWithBackend(backend, *config), nil
}

// NewRegistrationWithBackend wires the service to an existing backend.
func NewRegistrationWithBackend(b *Backend, config RegistrationConfig) *RegistrationFunction {
	if config.UsersCollection == "" {
		config.UsersCollection = models.DefaultUsersCollection
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &RegistrationFunction{
		docs:    b.Docs,
		channel: handoff.NewChannel[wizard.PortfolioProfile](b.Handoff, handoff.DefaultKeyPrefix, b.HandoffTTL),
		config:  config,
		now:     time.Now,
	}
}

// NewController returns a wizard that saves through f, stages the portfolio
// handoff and navigates nav to the portfolio form on completion.
func (f *RegistrationFunction) NewController(nav navigation.Navigator, opts ...wizard.ControllerOption) *wizard.Controller {
	opts = append([]wizard.ControllerOption{
		wizard.WithProfileSaver(f),
		wizard.WithStager(f.channel),
		wizard.WithNavigator(nav, navigation.PortfolioForm),
	}, opts...)
	return wizard.New(opts...)
}

// ValidateOptions returns the checks that depend on this service's
// configuration, such as the pepper appended before hashing.
func (f *RegistrationFunction) ValidateOptions() []wizard.ValidateOption {
	return []wizard.ValidateOption{wizard.WithSecretSuffix(f.config.PasswordPepper)}
}

// Process rebuilds the wizard from the client's state, applies each action
// in order and reports where the wizard ended up.
func (f *RegistrationFunction) Process(ctx context.Context, req *models.RegistrationRequest) (*models.RegistrationResponse, error) {
	logCtx := slog.With("ownerId", req.OwnerID, "step", req.Step, "actions", len(req.Actions))

	nav := &navigation.Recorder{}
	ctrl := f.NewController(nav,
		wizard.WithRecord(req.Record),
		wizard.WithOwnerID(req.OwnerID),
	)
	if req.Step != 0 {
		if err := ctrl.JumpTo(req.Step); err != nil {
			return nil, err
		}
	}

	var done *wizard.Completion
	for i, action := range req.Actions {
		if done != nil {
			return nil, &InvalidActionError{Index: i, Op: action.Op, Err: errors.New("registration already completed")}
		}
		switch action.Op {
		case models.OpAdvance:
			ctrl.Advance()
		case models.OpRetreat:
			ctrl.Retreat()
		case models.OpJump:
			if err := ctrl.JumpTo(action.Step); err != nil {
				return nil, &InvalidActionError{Index: i, Op: action.Op, Err: err}
			}
		case models.OpSet:
			if action.Field == "" {
				return nil, &InvalidActionError{Index: i, Op: action.Op, Err: errors.New("field is required")}
			}
			ctrl.UpdateField(action.Field, action.Value)
		case models.OpComplete:
			if !ctrl.IsLast() {
				return nil, &InvalidActionError{Index: i, Op: action.Op, Err: ErrNotLastStep}
			}
			if err := wizard.ValidateRecord(ctrl.Steps(), ctrl.Record(), f.ValidateOptions()...); err != nil {
				logCtx.Warn("Registration rejected by validation", "error", err)
				return nil, err
			}
			c, err := ctrl.Complete(ctx)
			if err != nil {
				return nil, err
			}
			done = c
		default:
			return nil, &InvalidActionError{Index: i, Op: action.Op, Err: ErrUnknownOp}
		}
	}

	step := ctrl.Current()
	res := &models.RegistrationResponse{
		Step:        step.ID,
		TotalSteps:  len(ctrl.Steps()),
		Label:       step.Label,
		Description: step.Description,
		Fields:      step.Fields,
		Progress:    ctrl.ProgressFraction(),
		IsFirst:     ctrl.IsFirst(),
		IsLast:      ctrl.IsLast(),
		Record:      ctrl.Record().Redacted(),
		OwnerID:     ctrl.OwnerID(),
	}
	if done != nil {
		res.Completed = true
		res.Ticket = done.Ticket
		res.Redirect = nav.Route()
	}
	return res, nil
}

// SaveProfile hashes the password and merge-writes the user document.
func (f *RegistrationFunction) SaveProfile(ctx context.Context, ownerID string, record wizard.PersonalRecord) error {
	var hash string
	if pw := record[wizard.FieldPassword]; pw != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(pw+f.config.PasswordPepper), f.config.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(b)
	}

	now := f.now()
	profile := models.NewUserProfile(record, hash, now)

	var existing models.UserProfile
	err := f.docs.Read(ctx, f.config.UsersCollection, ownerID, &existing)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		profile.CreatedAt = now.UTC()
	case err != nil:
		return err
	}

	return f.docs.Merge(ctx, f.config.UsersCollection, ownerID, profile.Fields())
}
