package models

import (
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/wizard"
)

// DefaultUsersCollection holds one UserProfile per owner.
const DefaultUsersCollection = "users"

// UserProfile is the Firestore record written when registration completes.
// The plain password is never stored.
type UserProfile struct {
	FirstName         string    `firestore:"firstName" json:"firstName"`
	LastName          string    `firestore:"lastName" json:"lastName"`
	ProfessionalTitle string    `firestore:"professionalTitle" json:"professionalTitle"`
	Email             string    `firestore:"email" json:"email"`
	Phone             string    `firestore:"phone" json:"phone"`
	LinkedIn          string    `firestore:"linkedin" json:"linkedin"`
	GitHub            string    `firestore:"github" json:"github"`
	DateOfBirth       string    `firestore:"dateOfBirth" json:"dateOfBirth"`
	PreferredLanguage string    `firestore:"preferredLanguage" json:"preferredLanguage"`
	AboutMe           string    `firestore:"aboutMe" json:"aboutMe"`
	Country           string    `firestore:"country" json:"country"`
	City              string    `firestore:"city" json:"city"`
	PostalCode        string    `firestore:"postalCode" json:"postalCode"`
	PasswordHash      string    `firestore:"passwordHash,omitempty" json:"-"`
	ProfileImage      string    `firestore:"profileImage,omitempty" json:"profileImage,omitempty"`
	CreatedAt         time.Time `firestore:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}

// NewUserProfile copies the record fields. CreatedAt is left zero; the
// caller sets it for first writes only.
func NewUserProfile(r wizard.PersonalRecord, passwordHash string, at time.Time) *UserProfile {
	return &UserProfile{
		FirstName:         r[wizard.FieldFirstName],
		LastName:          r[wizard.FieldLastName],
		ProfessionalTitle: r[wizard.FieldProfessionalTitle],
		Email:             r[wizard.FieldEmail],
		Phone:             r[wizard.FieldPhone],
		LinkedIn:          r[wizard.FieldLinkedIn],
		GitHub:            r[wizard.FieldGitHub],
		DateOfBirth:       r[wizard.FieldDateOfBirth],
		PreferredLanguage: r[wizard.FieldPreferredLanguage],
		AboutMe:           r[wizard.FieldAboutMe],
		Country:           r[wizard.FieldCountry],
		City:              r[wizard.FieldCity],
		PostalCode:        r[wizard.FieldPostalCode],
		PasswordHash:      passwordHash,
		UpdatedAt:         at.UTC(),
	}
}

// Fields returns the top-level fields for a merge write. Empty hash, image
// and creation time are omitted so a later write never clears them.
func (u *UserProfile) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		wizard.FieldFirstName:         u.FirstName,
		wizard.FieldLastName:          u.LastName,
		wizard.FieldProfessionalTitle: u.ProfessionalTitle,
		wizard.FieldEmail:             u.Email,
		wizard.FieldPhone:             u.Phone,
		wizard.FieldLinkedIn:          u.LinkedIn,
		wizard.FieldGitHub:            u.GitHub,
		wizard.FieldDateOfBirth:       u.DateOfBirth,
		wizard.FieldPreferredLanguage: u.PreferredLanguage,
		wizard.FieldAboutMe:           u.AboutMe,
		wizard.FieldCountry:           u.Country,
		wizard.FieldCity:              u.City,
		wizard.FieldPostalCode:        u.PostalCode,
		"updatedAt":                   u.UpdatedAt,
	}
	if u.PasswordHash != "" {
		fields["passwordHash"] = u.PasswordHash
	}
	if u.ProfileImage != "" {
		fields["profileImage"] = u.ProfileImage
	}
	if !u.CreatedAt.IsZero() {
		fields["createdAt"] = u.CreatedAt
	}
	return fields
}
