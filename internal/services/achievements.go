package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/achievements"
	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/gcp"
	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/navigation"
)

// AchievementsConfig holds configuration for the achievements service.
type AchievementsConfig struct {
	Collection string
}

// AchievementsFunction applies form edits and saves achievements documents.
type AchievementsFunction struct {
	docs   docstore.Store
	config AchievementsConfig
	now    func() time.Time
}

// NewAchievements creates an AchievementsFunction from the environment.
func NewAchievements(ctx context.Context) (*AchievementsFunction, error) {
	backend, err := NewBackendFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	return NewAchievementsWithBackend(backend, LoadAchievementsConfig()), nil
}

// LoadAchievementsConfig reads ACHIEVEMENTS_COLLECTION.
func LoadAchievementsConfig() AchievementsConfig {
	return AchievementsConfig{
		Collection: gcp.GetEnv("ACHIEVEMENTS_COLLECTION", achievements.DefaultCollection),
	}
}

// NewAchievementsWithBackend wires the service to an existing backend.
func NewAchievementsWithBackend(b *Backend, config AchievementsConfig) *AchievementsFunction {
	if config.Collection == "" {
		config.Collection = achievements.DefaultCollection
	}
	return &AchievementsFunction{docs: b.Docs, config: config, now: time.Now}
}

func (f *AchievementsFunction) newEditor(form achievements.Form, opts ...achievements.Option) *achievements.Editor {
	opts = append([]achievements.Option{
		achievements.WithCollection(f.config.Collection),
		achievements.WithForm(form),
		achievements.WithClock(f.now),
	}, opts...)
	return achievements.NewEditor(f.docs, opts...)
}

// Process applies the edit actions to the submitted form and, when asked,
// validates and saves the result.
func (f *AchievementsFunction) Process(ctx context.Context, req *models.AchievementsRequest) (*models.AchievementsResponse, error) {
	logCtx := slog.With("userId", req.UserID, "actions", len(req.Actions), "submit", req.Submit)

	var form achievements.Form
	if req.Form != nil {
		form = req.Form.Form()
	}
	nav := &navigation.Recorder{}
	editor := f.newEditor(form, achievements.WithNavigator(nav, navigation.Portfolio))

	for i, action := range req.Actions {
		if err := applyEdit(editor, action); err != nil {
			logCtx.Warn("Rejected achievements action", "index", i, "op", action.Op, "error", err)
			return nil, &InvalidActionError{Index: i, Op: action.Op, Err: err}
		}
	}

	res := &models.AchievementsResponse{UserID: req.UserID}
	if !req.Submit {
		res.Form = achievements.NewDocument(editor.Form(), req.UserID, time.Time{})
		return res, nil
	}

	if strings.TrimSpace(req.UserID) == "" {
		return nil, &achievements.MissingOwnerError{}
	}
	if err := achievements.Validate(editor.Form()); err != nil {
		logCtx.Warn("Achievements rejected by validation", "error", err)
		return nil, err
	}
	doc, err := editor.Submit(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	res.Form = doc
	res.Saved = true
	res.Redirect = nav.Route()
	return res, nil
}

// Load returns the saved document for the user.
func (f *AchievementsFunction) Load(ctx context.Context, req *models.LoadAchievementsRequest) (*models.AchievementsResponse, error) {
	editor := f.newEditor(nil)
	doc, err := editor.Load(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			slog.Error("Failed to load achievements", "userId", req.UserID, "error", err)
		}
		return nil, err
	}
	// Entries saved without IDs get them on load; report the editor's view.
	return &models.AchievementsResponse{
		UserID: req.UserID,
		Form:   achievements.NewDocument(editor.Form(), doc.UserID, doc.UpdatedAt),
		Saved:  true,
	}, nil
}

func applyEdit(editor *achievements.Editor, action models.EditAction) error {
	c := achievements.Category(action.Category)
	switch action.Op {
	case models.OpAdd:
		entry, err := editor.AddBlank(c)
		if err != nil {
			return err
		}
		for field, value := range action.Fields {
			if err := editor.UpdateField(c, entry.EntryID(), field, value); err != nil {
				return err
			}
		}
		return nil
	case models.OpUpdate:
		if action.ID != "" {
			return editor.UpdateField(c, action.ID, action.Field, action.Value)
		}
		if action.Index == nil {
			return errors.New("update needs an id or an index")
		}
		return editor.UpdateEntryField(c, *action.Index, action.Field, action.Value)
	case models.OpRemove:
		if action.ID != "" {
			return editor.Remove(c, action.ID)
		}
		if action.Index == nil {
			return errors.New("remove needs an id or an index")
		}
		return editor.RemoveEntry(c, *action.Index)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, action.Op)
	}
}
