package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is a contact-form lead as posted by the website.
// Company is the honeypot: the form hides it from humans.
type Submission struct {
	Name    string  `json:"name" binding:"required,min=2,max=100"`
	Email   string  `json:"email" binding:"required,email,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=40"`
	Service *string `json:"service" binding:"omitempty,max=120"`
	Message string  `json:"message" binding:"required,min=5,max=4000"`
	Company *string `json:"company" binding:"omitempty,max=120"`
}

// IsSpam reports whether the honeypot field was filled in.
func (s Submission) IsSpam() bool {
	return s.Company != nil && strings.TrimSpace(*s.Company) != ""
}

// ValidationDetails groups failures the same way the website form expects:
// errors about the body as a whole, and errors keyed by field name.
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// ValidationError is returned when a submission is rejected.
type ValidationError struct {
	Details ValidationDetails
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details.FieldErrors))
	for field := range e.Details.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		return fmt.Sprintf("invalid submission: %s", strings.Join(e.Details.FormErrors, "; "))
	}
	return fmt.Sprintf("invalid submission: %s", strings.Join(fields, ", "))
}

func (e *ValidationError) addField(field, message string) {
	e.Details.FieldErrors[field] = append(e.Details.FieldErrors[field], message)
}

func (e *ValidationError) empty() bool {
	return len(e.Details.FormErrors) == 0 && len(e.Details.FieldErrors) == 0
}

func newValidationError() *ValidationError {
	return &ValidationError{Details: ValidationDetails{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}}
}

var submissionValidator = newSubmissionValidator()

func newSubmissionValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseContactSubmission decodes and validates a raw request body.
// A body that is not JSON at all is treated as an empty object, so the
// caller still gets field-level errors for every required field.
func parseContactSubmission(raw []byte) (Submission, *ValidationError) {
	var sub Submission
	verr := newValidationError()

	fields, formErr := decodeBodyObject(raw)
	if formErr != "" {
		verr.Details.FormErrors = append(verr.Details.FormErrors, formErr)
		return sub, verr
	}

	typeErrors := map[string]bool{}
	targets := []struct {
		name     string
		required *string
		optional **string
	}{
		{name: "name", required: &sub.Name},
		{name: "email", required: &sub.Email},
		{name: "phone", optional: &sub.Phone},
		{name: "service", optional: &sub.Service},
		{name: "message", required: &sub.Message},
		{name: "company", optional: &sub.Company},
	}
	for _, target := range targets {
		value, ok := fields[target.name]
		if !ok {
			continue
		}
		var decoded *string
		if err := json.Unmarshal(value, &decoded); err != nil {
			verr.addField(target.name, fmt.Sprintf("Expected string, received %s", jsonKind(value)))
			typeErrors[target.name] = true
			continue
		}
		if target.optional != nil {
			*target.optional = decoded
		} else if decoded != nil {
			*target.required = *decoded
		}
	}

	if err := submissionValidator.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.Details.FormErrors = append(verr.Details.FormErrors, "Invalid input")
			return sub, verr
		}
		for _, fe := range fieldErrs {
			if typeErrors[fe.Field()] {
				continue
			}
			verr.addField(fe.Field(), validationMessage(fe))
		}
	}

	if !verr.empty() {
		return sub, verr
	}
	return sub, nil
}

// decodeBodyObject returns the top-level members of a JSON object body.
// Unparseable input yields an empty object; well-formed JSON that is not an
// object yields a form-level error instead.
func decodeBodyObject(raw []byte) (map[string]json.RawMessage, string) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return map[string]json.RawMessage{}, ""
	}
	if trimmed[0] != '{' {
		return nil, fmt.Sprintf("Expected object, received %s", jsonKind(trimmed))
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return map[string]json.RawMessage{}, ""
	}
	return fields, ""
}

func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "undefined"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "email":
		return "Invalid email"
	default:
		return "Invalid value"
	}
}
