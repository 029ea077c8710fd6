// Package web exposes the services over HTTP, both as Cloud Functions
// handlers and behind a chi router for local runs.
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/go-chi/chi/v5"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 1 << 20

// processJSON decodes a POSTed Req, runs process and encodes the result.
func processJSON[Req, Res any](process func(context.Context, *Req) (*Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeStatusError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req Req
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeStatusError(w, r, http.StatusBadRequest, "could not parse JSON")
			return
		}

		res, err := process(r.Context(), &req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}

// Registration serves HandleRegistration.
func Registration(fn *services.RegistrationFunction) http.HandlerFunc {
	return processJSON(fn.Process)
}

// SaveAchievements serves HandleSaveAchievements.
func SaveAchievements(fn *services.AchievementsFunction) http.HandlerFunc {
	return processJSON(fn.Process)
}

// ClaimPortfolio serves HandleClaimPortfolio.
func ClaimPortfolio(fn *services.PortfolioFunction) http.HandlerFunc {
	return processJSON(fn.Process)
}

// LoadAchievements serves HandleLoadAchievements. The user ID comes from the
// userId route parameter or query string.
func LoadAchievements(fn *services.AchievementsFunction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeStatusError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		userID := chi.URLParam(r, "userId")
		if userID == "" {
			userID = r.URL.Query().Get("userId")
		}

		res, err := fn.Load(r.Context(), &models.LoadAchievementsRequest{UserID: userID})
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}
