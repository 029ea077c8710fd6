package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Lllllllleong/portfolioflow/internal/achievements"
	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"github.com/Lllllllleong/portfolioflow/internal/logging"
	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/Lllllllleong/portfolioflow/internal/wizard"
)

// HTTPStatus maps a service error to its response status.
func HTTPStatus(err error) int {
	var (
		wizardInvalid  *wizard.ValidationError
		entriesInvalid *achievements.ValidationError
		missingOwner   *achievements.MissingOwnerError
		badStep        *wizard.InvalidStepError
		badAction      *services.InvalidActionError
		wizardWrite    *wizard.ExternalWriteError
		entriesWrite   *achievements.ExternalWriteError
	)
	switch {
	case errors.As(err, &wizardWrite), errors.As(err, &entriesWrite):
		return http.StatusBadGateway
	case errors.As(err, &wizardInvalid), errors.As(err, &entriesInvalid),
		errors.As(err, &missingOwner), errors.As(err, &badStep),
		errors.As(err, &badAction), errors.Is(err, services.ErrMissingKey):
		return http.StatusBadRequest
	case errors.Is(err, handoff.ErrExpired):
		return http.StatusGone
	case errors.Is(err, handoff.ErrNotFound), errors.Is(err, docstore.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// problems extracts per-field details from validation errors.
func problems(err error) interface{} {
	var wizardInvalid *wizard.ValidationError
	if errors.As(err, &wizardInvalid) {
		return wizardInvalid.Problems
	}
	var entriesInvalid *achievements.ValidationError
	if errors.As(err, &entriesInvalid) {
		return entriesInvalid.Problems
	}
	return nil
}

// respondError logs err and writes a JSON error body. Server-side failures
// are reported to the client without detail.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	logCtx := logging.FromContext(r.Context()).With("path", r.URL.Path, "status", status)

	body := models.ErrorResponse{Error: err.Error(), Problems: problems(err)}
	switch {
	case status == http.StatusBadGateway:
		logCtx.Error("Upstream write failed", "error", err)
		body.Error = "document store write failed"
	case status >= http.StatusInternalServerError:
		logCtx.Error("Request failed", "error", err)
		body.Error = "processing failed"
	default:
		logCtx.Warn("Request rejected", "error", err)
	}
	writeJSON(w, r, status, body)
}

func writeStatusError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	logging.FromContext(r.Context()).Warn("Request rejected", "path", r.URL.Path, "status", status, "error", msg)
	writeJSON(w, r, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("Failed to write response", "error", err)
	}
}
