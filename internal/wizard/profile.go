package wizard

import "strings"

// PersonalRecord is the flat field-name to value mapping collected by the
// wizard. Dates are ISO (2006-01-02) strings and enums are option codes.
type PersonalRecord map[string]string

// Clone returns an independent copy.
func (r PersonalRecord) Clone() PersonalRecord {
	out := make(PersonalRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Redacted returns a copy with secret values masked.
func (r PersonalRecord) Redacted() PersonalRecord {
	out := r.Clone()
	if out[FieldPassword] != "" {
		out[FieldPassword] = "********"
	}
	return out
}

// PortfolioProfile is the summary handed from registration to the
// portfolio builder.
type PortfolioProfile struct {
	OwnerID      string `json:"ownerId"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	About        string `json:"about"`
	LinkedIn     string `json:"linkedin"`
	GitHub       string `json:"github"`
	Website      string `json:"website"`
	ProfileImage string `json:"profileImage"`
}

// ProfileFromRecord derives the portfolio summary. The password never
// leaves the record.
func ProfileFromRecord(ownerID string, r PersonalRecord) PortfolioProfile {
	return PortfolioProfile{
		OwnerID:  ownerID,
		Name:     joinNonEmpty(" ", r[FieldFirstName], r[FieldLastName]),
		Title:    r[FieldProfessionalTitle],
		Email:    r[FieldEmail],
		Phone:    r[FieldPhone],
		Location: joinNonEmpty(", ", r[FieldCity], r[FieldCountry]),
		About:    r[FieldAboutMe],
		LinkedIn: r[FieldLinkedIn],
		GitHub:   r[FieldGitHub],
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
