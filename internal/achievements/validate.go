package achievements

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldProblem describes one failing field of one entry.
type FieldProblem struct {
	Category Category `json:"category"`
	Index    int      `json:"index"`
	EntryID  string   `json:"id"`
	Field    string   `json:"field"`
	Rule     string   `json:"rule"`
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s[%d].%s: %s", p.Category, p.Index, p.Field, p.Rule))
	}
	return "invalid achievements: " + strings.Join(parts, "; ")
}

// Validate checks every entry against its declared rules: titles and
// project names are required, years are optional four-digit numbers.
// The editor never calls it; callers decide when a form must be valid.
func Validate(f Form) error {
	var problems []FieldProblem
	for _, c := range Categories() {
		for i, entry := range f[c] {
			err := validate.Struct(entry)
			if err == nil {
				continue
			}
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return fmt.Errorf("failed to validate %s[%d]: %w", c, i, err)
			}
			for _, fe := range verrs {
				problems = append(problems, FieldProblem{
					Category: c,
					Index:    i,
					EntryID:  entry.EntryID(),
					Field:    fe.Field(),
					Rule:     fe.Tag(),
				})
			}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
