package wizard

// FieldKind describes how a field is entered and checked.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindURL      FieldKind = "url"
	KindDate     FieldKind = "date"
	KindEnum     FieldKind = "enum"
	KindTextArea FieldKind = "textarea"
	KindSecret   FieldKind = "secret"
)

// Option is one allowed value of an enum field.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FieldDef declares one input of a step.
type FieldDef struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// Step is one panel of the wizard. IDs run from 1 to len(steps).
type Step struct {
	ID          int        `json:"id"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Fields      []FieldDef `json:"fields,omitempty"`
}

// Field names of the registration record.
const (
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldProfessionalTitle = "professionalTitle"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldLinkedIn          = "linkedin"
	FieldGitHub            = "github"
	FieldDateOfBirth       = "dateOfBirth"
	FieldPreferredLanguage = "preferredLanguage"
	FieldAboutMe           = "aboutMe"
	FieldCountry           = "country"
	FieldCity              = "city"
	FieldPostalCode        = "postalCode"
	FieldPassword          = "password"
)

var languageOptions = []Option{
	{Code: "en", Label: "English"},
	{Code: "es", Label: "Spanish"},
	{Code: "fr", Label: "French"},
	{Code: "de", Label: "German"},
	{Code: "zh", Label: "Chinese"},
	{Code: "ja", Label: "Japanese"},
}

var countryOptions = []Option{
	{Code: "us", Label: "United States"},
	{Code: "ca", Label: "Canada"},
	{Code: "uk", Label: "United Kingdom"},
	{Code: "au", Label: "Australia"},
	{Code: "in", Label: "India"},
	{Code: "other", Label: "Other"},
}

// RegistrationSteps returns the six registration steps.
func RegistrationSteps() []Step {
	return []Step{
		{
			ID: 1, Label: "Personal Details", Description: "Basic information to get started",
			Fields: []FieldDef{
				{Name: FieldFirstName, Label: "First Name", Kind: KindText, Placeholder: "Enter your first name", Required: true},
				{Name: FieldLastName, Label: "Last Name", Kind: KindText, Placeholder: "Enter your last name", Required: true},
				{Name: FieldProfessionalTitle, Label: "Professional Title", Kind: KindText, Placeholder: "e.g. Full Stack Developer, Product Designer"},
			},
		},
		{
			ID: 2, Label: "Contact Info", Description: "How we can reach you",
			Fields: []FieldDef{
				{Name: FieldEmail, Label: "Email Address", Kind: KindEmail, Placeholder: "you@example.com", Required: true},
				{Name: FieldPhone, Label: "Phone Number", Kind: KindTel, Placeholder: "Enter your phone number"},
				{Name: FieldLinkedIn, Label: "LinkedIn", Kind: KindURL, Placeholder: "linkedin.com/in/username"},
				{Name: FieldGitHub, Label: "GitHub", Kind: KindURL, Placeholder: "github.com/username"},
			},
		},
		{
			ID: 3, Label: "Demographics", Description: "Tell us about yourself",
			Fields: []FieldDef{
				{Name: FieldDateOfBirth, Label: "Date of Birth", Kind: KindDate, Placeholder: "YYYY-MM-DD"},
				{Name: FieldPreferredLanguage, Label: "Preferred Language", Kind: KindEnum, Options: languageOptions},
				{Name: FieldAboutMe, Label: "About Me", Kind: KindTextArea, Placeholder: "Write a brief introduction about yourself"},
			},
		},
		{
			ID: 4, Label: "Location", Description: "Where are you based",
			Fields: []FieldDef{
				{Name: FieldCountry, Label: "Country", Kind: KindEnum, Options: countryOptions},
				{Name: FieldCity, Label: "City", Kind: KindText, Placeholder: "Enter your city"},
				{Name: FieldPostalCode, Label: "Postal Code", Kind: KindText, Placeholder: "Enter postal code"},
			},
		},
		{
			ID: 5, Label: "Security", Description: "Keep your account safe",
			Fields: []FieldDef{
				{Name: FieldPassword, Label: "Password", Kind: KindSecret, Placeholder: "Create a secure password", Required: true},
			},
		},
		{
			ID: 6, Label: "Completion", Description: "Final review and submit",
		},
	}
}

// OptionLabel returns the label for code in field's options, or code itself.
func (f FieldDef) OptionLabel(code string) string {
	for _, o := range f.Options {
		if o.Code == code {
			return o.Label
		}
	}
	return code
}
