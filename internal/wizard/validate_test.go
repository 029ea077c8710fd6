package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDefRules(t *testing.T) {
	steps := RegistrationSteps()
	assert.Equal(t, "required,max=200", steps[0].Fields[0].Rules())
	assert.Equal(t, "required,email", steps[1].Fields[0].Rules())
	assert.Equal(t, "omitempty,datetime=2006-01-02", steps[2].Fields[0].Rules())
	assert.Equal(t, "omitempty,oneof=en es fr de zh ja", steps[2].Fields[1].Rules())
	assert.Equal(t, "required,min=8,secretbytes=0", steps[4].Fields[0].Rules())
}

func TestValidateStep(t *testing.T) {
	steps := RegistrationSteps()

	tests := []struct {
		name      string
		step      Step
		record    PersonalRecord
		wantField string
		wantRule  string
	}{
		{
			name:   "personal details ok",
			step:   steps[0],
			record: PersonalRecord{FieldFirstName: "Ada", FieldLastName: "Lovelace"},
		},
		{
			name:      "missing last name",
			step:      steps[0],
			record:    PersonalRecord{FieldFirstName: "Ada"},
			wantField: FieldLastName,
			wantRule:  "required",
		},
		{
			name:      "bad email",
			step:      steps[1],
			record:    PersonalRecord{FieldEmail: "nope"},
			wantField: FieldEmail,
			wantRule:  "email",
		},
		{
			name:      "bad date",
			step:      steps[2],
			record:    PersonalRecord{FieldDateOfBirth: "31/12/1990"},
			wantField: FieldDateOfBirth,
			wantRule:  "datetime",
		},
		{
			name:      "unknown language",
			step:      steps[2],
			record:    PersonalRecord{FieldPreferredLanguage: "klingon"},
			wantField: FieldPreferredLanguage,
			wantRule:  "oneof",
		},
		{
			name:      "short password",
			step:      steps[4],
			record:    PersonalRecord{FieldPassword: "short"},
			wantField: FieldPassword,
			wantRule:  "min",
		},
		{
			name:      "multibyte password over bcrypt limit",
			step:      steps[4],
			record:    PersonalRecord{FieldPassword: strings.Repeat("é", 40)},
			wantField: FieldPassword,
			wantRule:  "secretbytes",
		},
		{
			name:   "password at bcrypt limit",
			step:   steps[4],
			record: PersonalRecord{FieldPassword: strings.Repeat("a", MaxSecretBytes)},
		},
		{
			name:   "completion has no fields",
			step:   steps[5],
			record: PersonalRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStep(tt.step, tt.record)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Problems, 1)
			assert.Equal(t, tt.wantField, verr.Problems[0].Field)
			assert.Equal(t, tt.wantRule, verr.Problems[0].Rule)
		})
	}
}

func TestValidateRecord_Complete(t *testing.T) {
	assert.NoError(t, ValidateRecord(RegistrationSteps(), filledRecord()))

	err := ValidateRecord(RegistrationSteps(), PersonalRecord{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		fields = append(fields, p.Field)
	}
	assert.ElementsMatch(t, []string{FieldFirstName, FieldLastName, FieldEmail, FieldPassword}, fields)
}

func TestValidateRecord_SecretSuffix(t *testing.T) {
	r := filledRecord()
	r[FieldPassword] = strings.Repeat("p", 60)
	pepper := strings.Repeat("x", 16)

	assert.NoError(t, ValidateRecord(RegistrationSteps(), r))

	err := ValidateRecord(RegistrationSteps(), r, WithSecretSuffix(pepper))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 1)
	assert.Equal(t, FieldPassword, verr.Problems[0].Field)
	assert.Equal(t, "secretbytes", verr.Problems[0].Rule)

	r[FieldPassword] = strings.Repeat("p", MaxSecretBytes-len(pepper))
	assert.NoError(t, ValidateRecord(RegistrationSteps(), r, WithSecretSuffix(pepper)))
}

func TestProfileFromRecord(t *testing.T) {
	p := ProfileFromRecord("o1", PersonalRecord{
		FieldFirstName: "Ada",
		FieldCountry:   "uk",
		FieldPassword:  "secret-secret",
		FieldGitHub:    "github.com/ada",
	})
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "uk", p.Location)
	assert.Equal(t, "github.com/ada", p.GitHub)
	assert.Equal(t, "", p.Website)

	r := PersonalRecord{FieldPassword: "secret-secret"}
	assert.Equal(t, "********", r.Redacted()[FieldPassword])
	assert.Equal(t, "secret-secret", r[FieldPassword])
}
