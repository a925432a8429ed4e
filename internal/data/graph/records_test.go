package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestNormalizeInt_KeepsSafeRangeNative(t *testing.T) {
	if got := NormalizeInt(42); got != 42 {
		t.Fatalf("NormalizeInt(42) = %v; want 42", got)
	}
	if got := NormalizeInt(-7); got != -7 {
		t.Fatalf("NormalizeInt(-7) = %v; want -7", got)
	}
	if got := NormalizeInt(0); got != 0 {
		t.Fatalf("NormalizeInt(0) = %v; want 0", got)
	}
}

func TestNormalizeInt_StringifiesBeyondSafeRange(t *testing.T) {
	big := int64(1)<<53 + 1
	if got := NormalizeInt(big); got != "9007199254740993" {
		t.Fatalf("NormalizeInt(%d) = %v; want string form", big, got)
	}
	if got := NormalizeInt(-big); got != "-9007199254740993" {
		t.Fatalf("NormalizeInt(%d) = %v; want string form", -big, got)
	}
}

func TestCodesFromValue_FiltersNullsDedupesAndSorts(t *testing.T) {
	got := codesFromValue([]any{"CS201", nil, "CS101", "", "CS201", "MATH150"})
	want := []string{"CS101", "CS201", "MATH150"}
	if len(got) != len(want) {
		t.Fatalf("codesFromValue = %v; want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("codesFromValue = %v; want %v", got, want)
		}
	}
}

func TestCodesFromValue_NonListIsEmpty(t *testing.T) {
	if got := codesFromValue("CS101"); len(got) != 0 {
		t.Fatalf("codesFromValue on non-list = %v; want empty", got)
	}
	if got := codesFromValue(nil); len(got) != 0 {
		t.Fatalf("codesFromValue(nil) = %v; want empty", got)
	}
}

func TestCourseFromNode_MapsPropsAndDefaultsLabel(t *testing.T) {
	n := neo4j.Node{
		Props: map[string]any{
			"id":           "COURSE_CS101",
			"course_code":  "CS101",
			"course_title": "Intro to Programming",
			"description":  "First course.",
			"sch_credits":  int64(3),
			"n_credits":    int64(1),
			"isElective":   false,
			"categories":   []any{"Core"},
			"disciplines":  []any{"Computer Science"},
		},
	}
	c := courseFromNode(n)
	if c.ID != "COURSE_CS101" || c.CourseCode != "CS101" {
		t.Fatalf("unexpected identity: %q / %q", c.ID, c.CourseCode)
	}
	if c.SCHCredits != 3 || c.NCredits != 1 {
		t.Fatalf("unexpected credits: %d / %d", c.SCHCredits, c.NCredits)
	}
	if len(c.Categories) != 1 || c.Categories[0] != "Core" {
		t.Fatalf("unexpected categories: %v", c.Categories)
	}
	if len(c.Labels) != 1 || c.Labels[0] != "Course" {
		t.Fatalf("expected default Course label, got %v", c.Labels)
	}
}

func TestAsInt_HandlesDriverValueShapes(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{int64(5), 5},
		{3, 3},
		{2.0, 2},
		{"4", 4},
		{"not a number", 0},
		{nil, 0},
		{true, 0},
		// Outside the safe range there is no faithful int form.
		{int64(1)<<53 + 1, 0},
		{-(int64(1)<<53 + 1), 0},
	}
	for _, c := range cases {
		if got := asInt(c.in); got != c.want {
			t.Fatalf("asInt(%v) = %d; want %d", c.in, got, c.want)
		}
	}
}
