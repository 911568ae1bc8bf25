package autofill

import "fmt"

// Confidence reported for every suggestion set. The lookup is static, so
// confidence does not vary by field or context.
const suggestionConfidence = 0.85

// FieldType names a form field the service can fill.
type FieldType string

const (
	FieldEmail   FieldType = "email"
	FieldPhone   FieldType = "phone"
	FieldAddress FieldType = "address"
)

// Suggestion is a set of autofill candidates for one field.
type Suggestion struct {
	Field       FieldType `json:"field"`
	Suggestions []string  `json:"suggestions"`
	Confidence  float64   `json:"confidence"`
}

// Service produces autofill suggestions from a static template lookup.
type Service struct {
	name      string
	version   string
	templates map[FieldType][]string
}

// NewService creates an autofill service with the built-in templates.
func NewService() *Service {
	return &Service{
		name:    "autofill_service",
		version: "1.0.0",
		templates: map[FieldType][]string{
			FieldEmail: {
				"%s@gmail.com",
				"%s@company.com",
				"%s@outlook.com",
			},
			FieldPhone: {
				"%s-0000",
				"%s-1234",
				"%s-5678",
			},
			FieldAddress: {
				"%s Street, New York",
				"%s Avenue, Boston",
				"%s Road, Seattle",
			},
		},
	}
}

// GetName returns the service name.
func (s *Service) GetName() string {
	return s.name
}

// Suggest expands the templates for field with the given context string.
// Unknown fields produce an empty suggestion list.
func (s *Service) Suggest(field FieldType, context string) Suggestion {
	result := Suggestion{
		Field:       field,
		Suggestions: []string{},
		Confidence:  suggestionConfidence,
	}

	templates, ok := s.templates[field]
	if !ok {
		return result
	}

	for _, template := range templates {
		result.Suggestions = append(result.Suggestions, fmt.Sprintf(template, context))
	}

	return result
}
