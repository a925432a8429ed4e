package services

import (
	"context"
	"testing"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
)

func validCreateInput() CreateCourseInput {
	return CreateCourseInput{
		CourseCode:  "cs102",
		CourseTitle: "Data Structures",
		Description: "Lists, trees, maps.",
		SCHCredits:  3,
		Categories:  []string{"Core"},
		Disciplines: []string{"Computer Science"},
	}
}

func TestCreateCourse_NormalizesCodeAndDefaultsID(t *testing.T) {
	store := testCatalog()
	cache := &fakeRelCache{rels: map[string]*domain.CourseRelationships{}}
	svc := NewCatalogService(testLogger(t), store, cache)

	created, err := svc.CreateCourse(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if created.CourseCode != "CS102" {
		t.Fatalf("code not uppercased: %q", created.CourseCode)
	}
	if created.ID != "COURSE_CS102" {
		t.Fatalf("default id = %q; want COURSE_CS102", created.ID)
	}
	if cache.invalidated != 1 {
		t.Fatalf("relationship cache invalidations = %d; want 1", cache.invalidated)
	}
}

func TestCreateCourse_ValidationFailures(t *testing.T) {
	svc := NewCatalogService(testLogger(t), testCatalog(), nil)

	cases := []struct {
		name   string
		mutate func(*CreateCourseInput)
	}{
		{"blank code", func(in *CreateCourseInput) { in.CourseCode = " " }},
		{"malformed code", func(in *CreateCourseInput) { in.CourseCode = "C1" }},
		{"code with space", func(in *CreateCourseInput) { in.CourseCode = "CS 101" }},
		{"missing title", func(in *CreateCourseInput) { in.CourseTitle = "" }},
		{"missing description", func(in *CreateCourseInput) { in.Description = "  " }},
		{"negative credits", func(in *CreateCourseInput) { in.SCHCredits = -1 }},
		{"blank categories", func(in *CreateCourseInput) { in.Categories = []string{" "} }},
		{"no disciplines", func(in *CreateCourseInput) { in.Disciplines = nil }},
	}
	for _, c := range cases {
		in := validCreateInput()
		c.mutate(&in)
		if _, err := svc.CreateCourse(context.Background(), in); !apierr.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", c.name, err)
		}
	}
}

func TestCreateCourse_DuplicateCode(t *testing.T) {
	svc := NewCatalogService(testLogger(t), testCatalog(), nil)

	in := validCreateInput()
	in.CourseCode = "CS101"
	if _, err := svc.CreateCourse(context.Background(), in); !apierr.IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestGetCourse_ResolvesIDThenCode(t *testing.T) {
	svc := NewCatalogService(testLogger(t), testCatalog(), nil)

	byID, err := svc.GetCourse(context.Background(), "COURSE_CS101")
	if err != nil || byID == nil || byID.CourseCode != "CS101" {
		t.Fatalf("lookup by id = %+v, %v", byID, err)
	}

	byCode, err := svc.GetCourse(context.Background(), "cs101")
	if err != nil || byCode == nil || byCode.CourseCode != "CS101" {
		t.Fatalf("lookup by code = %+v, %v", byCode, err)
	}

	missing, err := svc.GetCourse(context.Background(), "NOPE999")
	if err != nil || missing != nil {
		t.Fatalf("missing lookup = %+v, %v; want nil, nil", missing, err)
	}

	if _, err := svc.GetCourse(context.Background(), "  "); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error for blank ref, got %v", err)
	}
}

func TestUpdateCourse_RejectsEmptiedListsAndNegativeCredits(t *testing.T) {
	svc := NewCatalogService(testLogger(t), testCatalog(), nil)

	bad := -1
	if _, err := svc.UpdateCourse(context.Background(), "COURSE_CS101", domain.CoursePatch{SCHCredits: &bad}); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateCourse(context.Background(), "COURSE_CS101", domain.CoursePatch{Categories: []string{" "}}); !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	title := "Renamed"
	updated, err := svc.UpdateCourse(context.Background(), "COURSE_CS101", domain.CoursePatch{CourseTitle: &title})
	if err != nil || updated == nil || updated.CourseTitle != "Renamed" {
		t.Fatalf("update = %+v, %v", updated, err)
	}
}

func TestDeleteCourse_InvalidatesCacheOnlyWhenRemoved(t *testing.T) {
	cache := &fakeRelCache{rels: map[string]*domain.CourseRelationships{}}
	svc := NewCatalogService(testLogger(t), testCatalog(), cache)

	removed, err := svc.DeleteCourse(context.Background(), "COURSE_CS101")
	if err != nil || !removed {
		t.Fatalf("delete = %v, %v; want true, nil", removed, err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("invalidations = %d; want 1", cache.invalidated)
	}

	removed, err = svc.DeleteCourse(context.Background(), "COURSE_CS101")
	if err != nil || removed {
		t.Fatalf("second delete = %v, %v; want false, nil", removed, err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("absent delete must not invalidate, got %d", cache.invalidated)
	}
}
