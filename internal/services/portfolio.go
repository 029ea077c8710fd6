package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/gcp"
	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/wizard"
)

// PortfolioConfig holds configuration for the portfolio claim service.
type PortfolioConfig struct {
	UsersCollection string
}

// PortfolioFunction hands the staged registration summary to the portfolio
// builder exactly once.
type PortfolioFunction struct {
	docs    docstore.Store
	channel *handoff.Channel[wizard.PortfolioProfile]
	config  PortfolioConfig
}

// NewPortfolio creates a PortfolioFunction from the environment.
func NewPortfolio(ctx context.Context) (*PortfolioFunction, error) {
	backend, err := NewBackendFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return NewPortfolioWithBackend(backend, LoadPortfolioConfig()), nil
}

// LoadPortfolioConfig reads USERS_COLLECTION.
func LoadPortfolioConfig() PortfolioConfig {
	return PortfolioConfig{
		UsersCollection: gcp.GetEnv("USERS_COLLECTION", models.DefaultUsersCollection),
	}
}

// NewPortfolioWithBackend wires the service to an existing backend.
func NewPortfolioWithBackend(b *Backend, config PortfolioConfig) *PortfolioFunction {
	if config.UsersCollection == "" {
		config.UsersCollection = models.DefaultUsersCollection
	}
	return &PortfolioFunction{
		docs:    b.Docs,
		channel: handoff.NewChannel[wizard.PortfolioProfile](b.Handoff, handoff.DefaultKeyPrefix, b.HandoffTTL),
		config:  config,
	}
}

// Process claims the staged profile. A profile image linked after staging
// is filled in from the user document.
func (f *PortfolioFunction) Process(ctx context.Context, req *models.ClaimPortfolioRequest) (*models.ClaimPortfolioResponse, error) {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return nil, ErrMissingKey
	}
	logCtx := slog.With("key", key)

	profile, err := f.channel.Claim(ctx, handoff.Ticket{Key: key})
	if err != nil {
		logCtx.Warn("Portfolio handoff claim failed", "error", err)
		return nil, err
	}

	if profile.ProfileImage == "" && profile.OwnerID != "" {
		var user models.UserProfile
		err := f.docs.Read(ctx, f.config.UsersCollection, profile.OwnerID, &user)
		switch {
		case err == nil:
			profile.ProfileImage = user.ProfileImage
		case !errors.Is(err, docstore.ErrNotFound):
			logCtx.Warn("Could not read user document for profile image", "ownerId", profile.OwnerID, "error", err)
		}
	}

	logCtx.Info("Portfolio handoff claimed.", "ownerId", profile.OwnerID)
	return &models.ClaimPortfolioResponse{Profile: profile}, nil
}
