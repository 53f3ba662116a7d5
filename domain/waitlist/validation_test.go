package waitlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name       string
		req        *SignupRequest
		wantFields []string
		wantEmail  string
	}{
		{name: "minimal valid", req: &SignupRequest{Email: "a@b.com"}, wantEmail: "a@b.com"},
		{name: "normalizes email", req: &SignupRequest{Email: "  Jane.Doe@Example.COM\t"}, wantEmail: "jane.doe@example.com"},
		{name: "empty body names email", req: &SignupRequest{}, wantFields: []string{"email"}},
		{name: "whitespace email", req: &SignupRequest{Email: "   "}, wantFields: []string{"email"}},
		{name: "bad syntax", req: &SignupRequest{Email: "not-an-email"}, wantFields: []string{"email"}},
		{name: "email too long", req: &SignupRequest{Email: strings.Repeat("a", 250) + "@b.com"}, wantFields: []string{"email"}},
		{
			name:       "every field invalid",
			req:        &SignupRequest{Email: "nope", FirstName: strings.Repeat("x", 101), LastName: strings.Repeat("y", 101)},
			wantFields: []string{"email", "firstName", "lastName"},
		},
		{name: "nil request", req: nil, wantFields: []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateSignup(tt.req)

			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.wantEmail, got.Email)
				return
			}

			require.Error(t, err)
			assert.Nil(t, got)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))

			fields := make([]string, 0, len(validationErr.Fields))
			for _, f := range validationErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidateSignup_Messages(t *testing.T) {
	_, err := ValidateSignup(&SignupRequest{})
	assert.EqualError(t, err, "email is required")

	_, err = ValidateSignup(&SignupRequest{Email: "not-an-email"})
	assert.EqualError(t, err, "please enter a valid email address")

	_, err = ValidateSignup(&SignupRequest{Email: "a@b.com", FirstName: strings.Repeat("x", 101)})
	assert.EqualError(t, err, "firstName must not exceed 100 characters")

	_, err = ValidateSignup(&SignupRequest{Email: "bad", LastName: strings.Repeat("y", 101)})
	assert.EqualError(t, err, "please enter a valid email address; lastName must not exceed 100 characters")
}

func TestValidateSignup_Names(t *testing.T) {
	got, err := ValidateSignup(&SignupRequest{Email: "a@b.com", FirstName: "  Grace ", LastName: " \t "})
	require.NoError(t, err)

	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Grace", *got.FirstName)
	assert.Nil(t, got.LastName)
}

func TestValidateSignup_NameLengthCountsCharacters(t *testing.T) {
	got, err := ValidateSignup(&SignupRequest{Email: "a@b.com", FirstName: strings.Repeat("é", 100)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100), *got.FirstName)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail(" ADA@Example.com "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
