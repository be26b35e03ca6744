package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContactSubmissionAcceptsMinimalPayload(t *testing.T) {
	sub, verr := parseContactSubmission([]byte(`{"name":"Jo","email":"jo@example.com","message":"Hello world"}`))
	require.Nil(t, verr)

	assert.Equal(t, "Jo", sub.Name)
	assert.Equal(t, "jo@example.com", sub.Email)
	assert.Equal(t, "Hello world", sub.Message)
	assert.Nil(t, sub.Phone)
	assert.Nil(t, sub.Service)
	assert.Nil(t, sub.Company)
	assert.False(t, sub.IsSpam())
}

func TestParseContactSubmissionTreatsNullOptionalsAsAbsent(t *testing.T) {
	sub, verr := parseContactSubmission([]byte(`{
		"name": "Jo Jansen",
		"email": "jo@example.com",
		"phone": null,
		"service": null,
		"company": null,
		"message": "Kozijnen schilderen graag"
	}`))
	require.Nil(t, verr)

	assert.Nil(t, sub.Phone)
	assert.Nil(t, sub.Service)
	assert.Nil(t, sub.Company)
}

func TestParseContactSubmissionKeepsOptionalValues(t *testing.T) {
	sub, verr := parseContactSubmission([]byte(`{
		"name": "Jo Jansen",
		"email": "jo@example.com",
		"phone": "0612345678",
		"service": "Schilderwerk",
		"message": "Kozijnen schilderen graag"
	}`))
	require.Nil(t, verr)

	require.NotNil(t, sub.Phone)
	require.NotNil(t, sub.Service)
	assert.Equal(t, "0612345678", *sub.Phone)
	assert.Equal(t, "Schilderwerk", *sub.Service)
}

func TestParseContactSubmissionReportsEveryMissingField(t *testing.T) {
	_, verr := parseContactSubmission([]byte(`{}`))
	require.NotNil(t, verr)

	assert.Empty(t, verr.Details.FormErrors)
	assert.Equal(t, []string{"Required"}, verr.Details.FieldErrors["name"])
	assert.Equal(t, []string{"Required"}, verr.Details.FieldErrors["email"])
	assert.Equal(t, []string{"Required"}, verr.Details.FieldErrors["message"])
	assert.Len(t, verr.Details.FieldErrors, 3)
}

func TestParseContactSubmissionReportsEveryBoundViolation(t *testing.T) {
	body := `{
		"name": "J",
		"email": "not-an-email",
		"phone": "` + strings.Repeat("1", 41) + `",
		"service": "` + strings.Repeat("s", 121) + `",
		"company": "` + strings.Repeat("c", 121) + `",
		"message": "hey"
	}`

	_, verr := parseContactSubmission([]byte(body))
	require.NotNil(t, verr)

	fields := verr.Details.FieldErrors
	assert.Equal(t, []string{"String must contain at least 2 character(s)"}, fields["name"])
	assert.Equal(t, []string{"Invalid email"}, fields["email"])
	assert.Equal(t, []string{"String must contain at most 40 character(s)"}, fields["phone"])
	assert.Equal(t, []string{"String must contain at most 120 character(s)"}, fields["service"])
	assert.Equal(t, []string{"String must contain at most 120 character(s)"}, fields["company"])
	assert.Equal(t, []string{"String must contain at least 5 character(s)"}, fields["message"])
}

func TestParseContactSubmissionRejectsOversizedFields(t *testing.T) {
	body := `{
		"name": "` + strings.Repeat("n", 101) + `",
		"email": "` + strings.Repeat("a", 195) + `@example.com",
		"message": "` + strings.Repeat("m", 4001) + `"
	}`

	_, verr := parseContactSubmission([]byte(body))
	require.NotNil(t, verr)

	assert.Contains(t, verr.Details.FieldErrors, "name")
	assert.Contains(t, verr.Details.FieldErrors, "email")
	assert.Equal(t, []string{"String must contain at most 4000 character(s)"}, verr.Details.FieldErrors["message"])
}

func TestParseContactSubmissionAcceptsBoundaryLengths(t *testing.T) {
	body := `{
		"name": "` + strings.Repeat("n", 100) + `",
		"email": "jo@example.com",
		"phone": "` + strings.Repeat("1", 40) + `",
		"message": "` + strings.Repeat("m", 4000) + `"
	}`

	_, verr := parseContactSubmission([]byte(body))
	assert.Nil(t, verr)
}

func TestParseContactSubmissionTreatsUnparseableBodyAsEmptyObject(t *testing.T) {
	for _, body := range []string{"", "not json", `{"name": "Jo"`} {
		_, verr := parseContactSubmission([]byte(body))
		require.NotNil(t, verr, "body %q", body)

		assert.Empty(t, verr.Details.FormErrors)
		assert.Contains(t, verr.Details.FieldErrors, "name")
		assert.Contains(t, verr.Details.FieldErrors, "email")
		assert.Contains(t, verr.Details.FieldErrors, "message")
	}
}

func TestParseContactSubmissionRejectsNonObjectJSON(t *testing.T) {
	_, verr := parseContactSubmission([]byte(`["Jo"]`))
	require.NotNil(t, verr)

	assert.Equal(t, []string{"Expected object, received array"}, verr.Details.FormErrors)
	assert.Empty(t, verr.Details.FieldErrors)
}

func TestParseContactSubmissionReportsWrongTypesOncePerField(t *testing.T) {
	_, verr := parseContactSubmission([]byte(`{"name": 42, "email": "jo@example.com", "phone": true, "message": "Hello world"}`))
	require.NotNil(t, verr)

	assert.Equal(t, []string{"Expected string, received number"}, verr.Details.FieldErrors["name"])
	assert.Equal(t, []string{"Expected string, received boolean"}, verr.Details.FieldErrors["phone"])
	assert.Len(t, verr.Details.FieldErrors, 2)
}

func TestSubmissionIsSpam(t *testing.T) {
	filled := "ACME BV"
	blank := "   \t"
	empty := ""

	tests := []struct {
		name    string
		company *string
		want    bool
	}{
		{name: "absent", company: nil, want: false},
		{name: "empty", company: &empty, want: false},
		{name: "whitespace", company: &blank, want: false},
		{name: "filled", company: &filled, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Submission{Company: tt.company}
			assert.Equal(t, tt.want, sub.IsSpam())
		})
	}
}

func TestValidationErrorMessageListsFields(t *testing.T) {
	_, verr := parseContactSubmission([]byte(`{}`))
	require.NotNil(t, verr)

	assert.Equal(t, "invalid submission: email, message, name", verr.Error())
}
