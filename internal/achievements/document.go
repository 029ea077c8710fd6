package achievements

import (
	"fmt"
	"time"
)

// DefaultCollection is where achievements documents are stored, keyed by owner.
const DefaultCollection = "achievements"

// Form maps each category to its ordered entries. A Form is never mutated
// after it has been handed out; edits produce a new Form.
type Form map[Category][]Entry

// clone returns a new map sharing every category slice with f.
func (f Form) clone() Form {
	out := make(Form, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Len returns the number of entries in c.
func (f Form) Len(c Category) int {
	return len(f[c])
}

// Document is the persisted shape of a Form for one owner.
type Document struct {
	AcademicAchievements []AcademicAchievement     `firestore:"academicAchievements" json:"academicAchievements"`
	Certifications       []Certification           `firestore:"certifications" json:"certifications"`
	Projects             []Project                 `firestore:"projects" json:"projects"`
	ExtraCurricular      []ExtraCurricularActivity `firestore:"extraCurricular" json:"extraCurricular"`
	UserID               string                    `firestore:"userId" json:"userId"`
	UpdatedAt            time.Time                 `firestore:"updatedAt" json:"updatedAt"`
}

// storedDocument is the read shape of a Document. Older clients wrote
// updatedAt as an ISO-8601 string rather than a timestamp.
type storedDocument struct {
	AcademicAchievements []AcademicAchievement     `firestore:"academicAchievements" json:"academicAchievements"`
	Certifications       []Certification           `firestore:"certifications" json:"certifications"`
	Projects             []Project                 `firestore:"projects" json:"projects"`
	ExtraCurricular      []ExtraCurricularActivity `firestore:"extraCurricular" json:"extraCurricular"`
	UserID               string                    `firestore:"userId" json:"userId"`
	UpdatedAt            interface{}               `firestore:"updatedAt" json:"updatedAt"`
}

func (s *storedDocument) document() (*Document, error) {
	at, err := parseUpdatedAt(s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &Document{
		AcademicAchievements: s.AcademicAchievements,
		Certifications:       s.Certifications,
		Projects:             s.Projects,
		ExtraCurricular:      s.ExtraCurricular,
		UserID:               s.UserID,
		UpdatedAt:            at,
	}, nil
}

func parseUpdatedAt(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case string:
		if t == "" {
			return time.Time{}, nil
		}
		at, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid updatedAt %q: %w", t, err)
		}
		return at.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported updatedAt type %T", v)
	}
}

// NewDocument snapshots form for ownerID. Absent categories become empty
// (never nil) sequences so that the merge write replaces them.
func NewDocument(form Form, ownerID string, at time.Time) *Document {
	d := &Document{
		AcademicAchievements: make([]AcademicAchievement, 0, form.Len(AcademicAchievements)),
		Certifications:       make([]Certification, 0, form.Len(Certifications)),
		Projects:             make([]Project, 0, form.Len(Projects)),
		ExtraCurricular:      make([]ExtraCurricularActivity, 0, form.Len(ExtraCurricular)),
		UserID:               ownerID,
		UpdatedAt:            at.UTC(),
	}
	for _, c := range Categories() {
		for _, e := range form[c] {
			switch v := e.(type) {
			case AcademicAchievement:
				d.AcademicAchievements = append(d.AcademicAchievements, v)
			case Certification:
				d.Certifications = append(d.Certifications, v)
			case Project:
				d.Projects = append(d.Projects, v)
			case ExtraCurricularActivity:
				d.ExtraCurricular = append(d.ExtraCurricular, v)
			}
		}
	}
	return d
}

// Fields returns the top-level fields written by a merge.
func (d *Document) Fields() map[string]interface{} {
	return map[string]interface{}{
		string(AcademicAchievements): d.AcademicAchievements,
		string(Certifications):       d.Certifications,
		string(Projects):             d.Projects,
		string(ExtraCurricular):      d.ExtraCurricular,
		"userId":                     d.UserID,
		"updatedAt":                  d.UpdatedAt,
	}
}

// Form converts the document back into an editable Form.
func (d *Document) Form() Form {
	f := make(Form, 4)
	for _, e := range d.AcademicAchievements {
		f[AcademicAchievements] = append(f[AcademicAchievements], e)
	}
	for _, e := range d.Certifications {
		f[Certifications] = append(f[Certifications], e)
	}
	for _, e := range d.Projects {
		f[Projects] = append(f[Projects], e)
	}
	for _, e := range d.ExtraCurricular {
		f[ExtraCurricular] = append(f[ExtraCurricular], e)
	}
	return f
}

// Count returns the number of entries per category.
func (d *Document) Count() map[Category]int {
	return map[Category]int{
		AcademicAchievements: len(d.AcademicAchievements),
		Certifications:       len(d.Certifications),
		Projects:             len(d.Projects),
		ExtraCurricular:      len(d.ExtraCurricular),
	}
}
