package achievements

import "fmt"

// Category names one of the fixed record groupings.
type Category string

const (
	AcademicAchievements Category = "academicAchievements"
	Certifications       Category = "certifications"
	Projects             Category = "projects"
	ExtraCurricular      Category = "extraCurricular"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{AcademicAchievements, Certifications, Projects, ExtraCurricular}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case AcademicAchievements, Certifications, Projects, ExtraCurricular:
		return true
	}
	return false
}

// Title is the human-readable section heading.
func (c Category) Title() string {
	switch c {
	case AcademicAchievements:
		return "Academic Achievements"
	case Certifications:
		return "Certifications"
	case Projects:
		return "Projects"
	case ExtraCurricular:
		return "Extra-curricular Activities"
	}
	return string(c)
}

// Entry is one record within a category. The set of implementations is
// closed: AcademicAchievement, Certification, Project and
// ExtraCurricularActivity.
// Entries are values; WithField returns a modified copy.
type Entry interface {
	EntryID() string
	Category() Category
	Fields() []string
	Field(name string) (string, bool)
	WithField(name, value string) (Entry, error)
	withID(id string) Entry
}

// Template returns the empty entry for c, or nil for an unknown category.
func Template(c Category) Entry {
	switch c {
	case AcademicAchievements:
		return AcademicAchievement{}
	case Certifications:
		return Certification{}
	case Projects:
		return Project{}
	case ExtraCurricular:
		return ExtraCurricularActivity{}
	}
	return nil
}

func unknownField(c Category, name string) error {
	return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, c, name)
}

// AcademicAchievement is an entry in AcademicAchievements.
type AcademicAchievement struct {
	ID    string `firestore:"id" json:"id"`
	Title string `firestore:"title" json:"title" validate:"required"`
	Year  string `firestore:"year" json:"year" validate:"omitempty,numeric,len=4"`
}

func (a AcademicAchievement) EntryID() string { return a.ID }
func (a AcademicAchievement) Category() Category { return AcademicAchievements }
func (a AcademicAchievement) Fields() []string { return []string{"title", "year"} }
func (a AcademicAchievement) withID(id string) Entry {
	a.ID = id
	return a
}

func (a AcademicAchievement) Field(name string) (string, bool) {
	switch name {
	case "title":
		return a.Title, true
	case "year":
		return a.Year, true
	}
	return "", false
}

func (a AcademicAchievement) WithField(name, value string) (Entry, error) {
	switch name {
	case "title":
		a.Title = value
	case "year":
		a.Year = value
	default:
		return nil, unknownField(AcademicAchievements, name)
	}
	return a, nil
}

// Certification is an entry in Certifications.
type Certification struct {
	ID     string `firestore:"id" json:"id"`
	Title  string `firestore:"title" json:"title" validate:"required"`
	Year   string `firestore:"year" json:"year" validate:"omitempty,numeric,len=4"`
	Issuer string `firestore:"issuer" json:"issuer"`
}

func (c Certification) EntryID() string { return c.ID }
func (c Certification) Category() Category { return Certifications }
func (c Certification) Fields() []string { return []string{"title", "year", "issuer"} }
func (c Certification) withID(id string) Entry {
	c.ID = id
	return c
}

func (c Certification) Field(name string) (string, bool) {
	switch name {
	case "title":
		return c.Title, true
	case "year":
		return c.Year, true
	case "issuer":
		return c.Issuer, true
	}
	return "", false
}

func (c Certification) WithField(name, value string) (Entry, error) {
	switch name {
	case "title":
		c.Title = value
	case "year":
		c.Year = value
	case "issuer":
		c.Issuer = value
	default:
		return nil, unknownField(Certifications, name)
	}
	return c, nil
}

// Project is an entry in Projects.
type Project struct {
	ID          string `firestore:"id" json:"id"`
	Name        string `firestore:"name" json:"name" validate:"required"`
	Year        string `firestore:"year" json:"year" validate:"omitempty,numeric,len=4"`
	Technology  string `firestore:"technology" json:"technology"`
	Description string `firestore:"description" json:"description" validate:"max=2000"`
}

func (p Project) EntryID() string { return p.ID }
func (p Project) Category() Category { return Projects }
func (p Project) Fields() []string { return []string{"name", "year", "technology", "description"} }
func (p Project) withID(id string) Entry {
	p.ID = id
	return p
}

func (p Project) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "year":
		return p.Year, true
	case "technology":
		return p.Technology, true
	case "description":
		return p.Description, true
	}
	return "", false
}

func (p Project) WithField(name, value string) (Entry, error) {
	switch name {
	case "name":
		p.Name = value
	case "year":
		p.Year = value
	case "technology":
		p.Technology = value
	case "description":
		p.Description = value
	default:
		return nil, unknownField(Projects, name)
	}
	return p, nil
}

// ExtraCurricularActivity is an entry in ExtraCurricular.
type ExtraCurricularActivity struct {
	ID    string `firestore:"id" json:"id"`
	Title string `firestore:"title" json:"title" validate:"required"`
	Year  string `firestore:"year" json:"year" validate:"omitempty,numeric,len=4"`
	Role  string `firestore:"role" json:"role"`
}

func (x ExtraCurricularActivity) EntryID() string { return x.ID }
func (x ExtraCurricularActivity) Category() Category { return ExtraCurricular }
func (x ExtraCurricularActivity) Fields() []string { return []string{"title", "year", "role"} }
func (x ExtraCurricularActivity) withID(id string) Entry {
	x.ID = id
	return x
}

func (x ExtraCurricularActivity) Field(name string) (string, bool) {
	switch name {
	case "title":
		return x.Title, true
	case "year":
		return x.Year, true
	case "role":
		return x.Role, true
	}
	return "", false
}

func (x ExtraCurricularActivity) WithField(name, value string) (Entry, error) {
	switch name {
	case "title":
		x.Title = value
	case "year":
		x.Year = value
	case "role":
		x.Role = value
	default:
		return nil, unknownField(ExtraCurricular, name)
	}
	return x, nil
}
