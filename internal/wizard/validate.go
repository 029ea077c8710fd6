package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxSecretBytes is the longest input bcrypt will hash.
const MaxSecretBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// secretbytes=N: the value plus N reserved bytes fits in MaxSecretBytes.
	err := v.RegisterValidation("secretbytes", func(fl validator.FieldLevel) bool {
		reserved, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String())+reserved <= MaxSecretBytes
	})
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateOption adjusts how a record is checked.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	reservedSecretBytes int
}

// WithSecretSuffix accounts for suffix being appended to secret fields
// before they are hashed.
func WithSecretSuffix(suffix string) ValidateOption {
	return func(c *validateConfig) { c.reservedSecretBytes = len(suffix) }
}

// FieldProblem names one failing field and the rule it broke.
type FieldProblem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError collects the problems found in a record.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Rule)
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// Rules returns the validator tag applied to values of f.
func (f FieldDef) Rules() string {
	return f.rules(0)
}

func (f FieldDef) rules(reservedSecretBytes int) string {
	rules := []string{"omitempty"}
	if f.Required {
		rules[0] = "required"
	}
	switch f.Kind {
	case KindEmail:
		rules = append(rules, "email")
	case KindTel:
		rules = append(rules, "max=32")
	case KindURL, KindText:
		rules = append(rules, "max=200")
	case KindDate:
		rules = append(rules, "datetime=2006-01-02")
	case KindEnum:
		codes := make([]string, 0, len(f.Options))
		for _, o := range f.Options {
			codes = append(codes, o.Code)
		}
		rules = append(rules, "oneof="+strings.Join(codes, " "))
	case KindTextArea:
		rules = append(rules, "max=2000")
	case KindSecret:
		// bcrypt rejects input over MaxSecretBytes, counted in bytes not runes
		rules = append(rules, "min=8", "secretbytes="+strconv.Itoa(reservedSecretBytes))
	}
	return strings.Join(rules, ",")
}

// ValidateStep checks the fields declared by step.
func ValidateStep(step Step, r PersonalRecord, opts ...ValidateOption) error {
	return validateFields(step.Fields, r, opts)
}

// ValidateRecord checks every field of every step.
func ValidateRecord(steps []Step, r PersonalRecord, opts ...ValidateOption) error {
	var fields []FieldDef
	for _, s := range steps {
		fields = append(fields, s.Fields...)
	}
	return validateFields(fields, r, opts)
}

func validateFields(fields []FieldDef, r PersonalRecord, opts []ValidateOption) error {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var problems []FieldProblem
	for _, f := range fields {
		err := validate.Var(r[f.Name], f.rules(cfg.reservedSecretBytes))
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate %s: %w", f.Name, err)
		}
		for _, fe := range verrs {
			problems = append(problems, FieldProblem{Field: f.Name, Rule: fe.Tag()})
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
