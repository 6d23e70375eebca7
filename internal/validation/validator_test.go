package validation_test

import (
	"testing"

	"github.com/diamonddb/diamond-node/internal/validation"
)

type testItem struct {
	Width int `json:"width" validate:"gt=0"`
}

type testInput struct {
	Name  string     `json:"name" validate:"required"`
	Items []testItem `json:"items" validate:"required,min=1,dive"`
}

func TestValidate(t *testing.T) {
	errs := validation.Validate(testInput{
		Name:  "people",
		Items: []testItem{{Width: 1}},
	}, nil)

	if errs != nil {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateMessages(t *testing.T) {
	errs := validation.Validate(testInput{
		Items: []testItem{{Width: 1}, {Width: 0}},
	}, map[string]string{
		"name.required":    "A name is required",
		"items.*.width.gt": "The width must be greater than zero",
	})

	if len(errs) != 2 {
		t.Fatalf("expected 2 invalid fields, got %v", errs)
	}

	if errs["name"][0] != "A name is required" {
		t.Errorf("unexpected message for name: %v", errs["name"])
	}

	if errs["items[1].width"][0] != "The width must be greater than zero" {
		t.Errorf("unexpected message for items[1].width: %v", errs)
	}
}

func TestValidateMissingMessage(t *testing.T) {
	errs := validation.Validate(testInput{Items: []testItem{{Width: 1}}}, nil)

	if len(errs["name"]) != 1 || errs["name"][0] == "" {
		t.Errorf("expected a fallback message, got %v", errs)
	}
}
