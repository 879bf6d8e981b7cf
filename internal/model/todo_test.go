package model

import (
	"errors"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{" High ", PriorityHigh, false},
		{"MEDIUM", PriorityMedium, false},
		{"urgent", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPriority) {
					t.Fatalf("ParsePriority(%q): got err %v, want ErrInvalidPriority", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePriority(%q): got %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q): got %q, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("errands"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ParseCategory(errands): got %v, want ErrInvalidCategory", err)
	}
}

func TestParseDue(t *testing.T) {
	d, err := ParseDue("2025-03-09")
	if err != nil {
		t.Fatalf("ParseDue: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 || d.Location() != time.Local {
		t.Errorf("ParseDue: got %v", d)
	}

	d, err = ParseDue("2025-03-09T10:30:00Z")
	if err != nil {
		t.Fatalf("ParseDue RFC3339: %v", err)
	}
	if d.Hour() != 10 || d.Minute() != 30 {
		t.Errorf("ParseDue RFC3339: got %v", d)
	}

	if _, err := ParseDue("next week"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDue(next week): got %v, want ErrInvalidDate", err)
	}
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft("Buy milk")
	if d.Priority != PriorityMedium || d.Category != CategoryPersonal || d.Completed {
		t.Errorf("NewDraft: got %+v", d)
	}
}

func TestPatchApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := created.Add(48 * time.Hour)
	orig := Todo{
		ID:        "a",
		Title:     "old",
		CreatedAt: created,
		DueDate:   &due,
		Priority:  PriorityLow,
		Category:  CategoryWork,
	}

	title := "new"
	high := PriorityHigh
	got := Patch{Title: &title, Priority: &high}.Apply(orig)
	if got.Title != "new" || got.Priority != PriorityHigh {
		t.Errorf("Apply: got %+v", got)
	}
	if got.Category != CategoryWork || got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("Apply touched unpatched fields: %+v", got)
	}
	if orig.Title != "old" {
		t.Error("Apply mutated the original")
	}

	cleared := Patch{ClearDue: true}.Apply(orig)
	if cleared.HasDue() {
		t.Error("ClearDue: due date still set")
	}

	if !(Patch{}).Empty() {
		t.Error("zero Patch should be Empty")
	}
	if (Patch{ClearDue: true}).Empty() {
		t.Error("ClearDue patch should not be Empty")
	}
}

func TestWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Todo
		want Todo
	}{
		{"empty", Todo{}, Todo{Priority: PriorityMedium, Category: CategoryPersonal}},
		{"unknown", Todo{Priority: "urgent", Category: "errands"}, Todo{Priority: PriorityMedium, Category: CategoryPersonal}},
		{"valid kept", Todo{Priority: PriorityHigh, Category: CategoryWork}, Todo{Priority: PriorityHigh, Category: CategoryWork}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.WithDefaults(); got != tt.want {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
