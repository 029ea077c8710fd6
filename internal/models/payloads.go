package models

import (
	"github.com/Lllllllleong/portfolioflow/internal/achievements"
	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"github.com/Lllllllleong/portfolioflow/internal/wizard"
)

// These structs define the JSON payloads exchanged between the front end
// and the HTTP functions.

// Wizard action ops.
const (
	OpAdvance  = "advance"
	OpRetreat  = "retreat"
	OpJump     = "jump"
	OpSet      = "set"
	OpComplete = "complete"
)

// WizardAction is one user action replayed against the wizard.
type WizardAction struct {
	Op    string `json:"op"`
	Step  int    `json:"step,omitempty"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// RegistrationRequest is the input for the registration function. The
// client holds the wizard state between calls and sends it back.
type RegistrationRequest struct {
	Step    int               `json:"step"`
	Record  map[string]string `json:"record"`
	OwnerID string            `json:"ownerId,omitempty"`
	Actions []WizardAction    `json:"actions"`
}

// RegistrationResponse is the output of the registration function.
type RegistrationResponse struct {
	Step        int               `json:"step"`
	TotalSteps  int               `json:"totalSteps"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Fields      []wizard.FieldDef `json:"fields"`
	Progress    float64           `json:"progress"`
	IsFirst     bool              `json:"isFirst"`
	IsLast      bool              `json:"isLast"`
	Record      map[string]string `json:"record"`
	Completed   bool              `json:"completed"`
	OwnerID     string            `json:"ownerId,omitempty"`
	Ticket      *handoff.Ticket   `json:"ticket,omitempty"`
	Redirect    string            `json:"redirect,omitempty"`
}

// Achievements edit ops.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)

// EditAction is one change to the achievements form. Update and remove
// address an entry by ID when given, otherwise by Index.
type EditAction struct {
	Op       string            `json:"op"`
	Category string            `json:"category"`
	Index    *int              `json:"index,omitempty"`
	ID       string            `json:"id,omitempty"`
	Field    string            `json:"field,omitempty"`
	Value    string            `json:"value,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// AchievementsRequest is the input for the save-achievements function.
type AchievementsRequest struct {
	UserID  string                 `json:"userId"`
	Form    *achievements.Document `json:"form,omitempty"`
	Actions []EditAction           `json:"actions"`
	Submit  bool                   `json:"submit"`
}

// LoadAchievementsRequest is the input for the load-achievements function.
type LoadAchievementsRequest struct {
	UserID string `json:"userId"`
}

// AchievementsResponse is the output of both achievements functions.
type AchievementsResponse struct {
	UserID   string                 `json:"userId"`
	Form     *achievements.Document `json:"form"`
	Saved    bool                   `json:"saved"`
	Redirect string                 `json:"redirect,omitempty"`
}

// ClaimPortfolioRequest is the input for the portfolio claim function.
type ClaimPortfolioRequest struct {
	Key string `json:"key"`
}

// ClaimPortfolioResponse is the output of the portfolio claim function.
type ClaimPortfolioResponse struct {
	Profile wizard.PortfolioProfile `json:"profile"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error    string      `json:"error"`
	Problems interface{} `json:"problems,omitempty"`
}
