package autofill

import (
	"strings"
	"testing"
)

func TestSuggest_Email(t *testing.T) {
	service := NewService()

	result := service.Suggest(FieldEmail, "user")

	if len(result.Suggestions) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d", len(result.Suggestions))
	}
	for _, suggestion := range result.Suggestions {
		if !strings.Contains(suggestion, "@") {
			t.Errorf("Email suggestion missing @: %s", suggestion)
		}
	}
	if result.Suggestions[0] != "user@gmail.com" {
		t.Errorf("Expected user@gmail.com first, got %s", result.Suggestions[0])
	}
	if result.Confidence <= 0.5 {
		t.Errorf("Confidence too low: %v", result.Confidence)
	}
}

func TestSuggest_Phone(t *testing.T) {
	service := NewService()

	result := service.Suggest(FieldPhone, "555-123")

	expected := []string{"555-123-0000", "555-123-1234", "555-123-5678"}
	if len(result.Suggestions) != len(expected) {
		t.Fatalf("Expected %d suggestions, got %d", len(expected), len(result.Suggestions))
	}
	for i, suggestion := range result.Suggestions {
		if suggestion != expected[i] {
			t.Errorf("Suggestion %d: expected %s, got %s", i, expected[i], suggestion)
		}
	}
}

func TestSuggest_Address(t *testing.T) {
	service := NewService()

	result := service.Suggest(FieldAddress, "42 Main")

	if len(result.Suggestions) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d", len(result.Suggestions))
	}
	if result.Suggestions[0] != "42 Main Street, New York" {
		t.Errorf("Unexpected first suggestion: %s", result.Suggestions[0])
	}
}

func TestSuggest_UnknownField(t *testing.T) {
	service := NewService()

	result := service.Suggest("favorite_color", "blue")

	if len(result.Suggestions) != 0 {
		t.Errorf("Unknown field should yield no suggestions, got %v", result.Suggestions)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence should stay fixed, got %v", result.Confidence)
	}
}
