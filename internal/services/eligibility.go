package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/degreeplanner-backend/internal/data/graph"
	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

const reasonAlreadyPlanned = "already in your degree plan"

// EligibilityResult explains a single course's standing for a student.
type EligibilityResult struct {
	CourseCode           string   `json:"course_code"`
	Eligible             bool     `json:"eligible"`
	Reason               string   `json:"reason,omitempty"`
	MissingPrerequisites []string `json:"missing_prerequisites,omitempty"`
}

// EligibilityService computes which catalog courses a student can plan
// next. A course is eligible when it is not already anywhere in the
// plan and every direct prerequisite is in the completed set.
type EligibilityService interface {
	// GetEligibleCourses returns the eligible subset of the catalog,
	// sorted by course code. upToSemesterID, when set, restricts the
	// completed set to semesters strictly before that one; courses
	// planned anywhere in the plan are excluded regardless.
	GetEligibleCourses(ctx context.Context, userID uuid.UUID, search string, upToSemesterID *uuid.UUID) ([]*domain.CourseWithLinks, error)
	// CheckEligibility reports the standing of one course whether or
	// not it is eligible.
	CheckEligibility(ctx context.Context, userID uuid.UUID, courseCode string) (*EligibilityResult, error)
}

type eligibilityService struct {
	log     *logger.Logger
	planner PlannerService
	courses graph.CourseStore
}

func NewEligibilityService(baseLog *logger.Logger, planner PlannerService, courses graph.CourseStore) EligibilityService {
	return &eligibilityService{
		log:     baseLog.With("service", "EligibilityService"),
		planner: planner,
		courses: courses,
	}
}

func (es *eligibilityService) GetEligibleCourses(ctx context.Context, userID uuid.UUID, search string, upToSemesterID *uuid.UUID) ([]*domain.CourseWithLinks, error) {
	var (
		dp      *domain.DegreePlan
		catalog []*domain.CourseWithLinks
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dp, err = es.planner.GetOrCreatePlan(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = es.courses.Catalog(gctx, strings.TrimSpace(search))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	completed, plannedAll, err := planSets(dp, upToSemesterID)
	if err != nil {
		return nil, err
	}

	eligible := []*domain.CourseWithLinks{}
	for _, course := range catalog {
		result := evaluate(course, completed, plannedAll)
		if result.Eligible {
			eligible = append(eligible, course)
		}
	}
	return eligible, nil
}

func (es *eligibilityService) CheckEligibility(ctx context.Context, userID uuid.UUID, courseCode string) (*EligibilityResult, error) {
	code := strings.ToUpper(strings.TrimSpace(courseCode))
	if code == "" {
		return nil, apierr.Validation("course_code_required", "course_code is required")
	}

	var (
		dp     *domain.DegreePlan
		course *domain.CourseWithLinks
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dp, err = es.planner.GetOrCreatePlan(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		course, err = es.courses.GetByCode(gctx, code)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "no catalog course with code %q", code)
	}

	completed, plannedAll, err := planSets(dp, nil)
	if err != nil {
		return nil, err
	}
	result := evaluate(course, completed, plannedAll)
	return &result, nil
}

// planSets derives the completed set (semesters strictly before the
// cutoff, or all of them without one) and the full planned set.
func planSets(dp *domain.DegreePlan, upToSemesterID *uuid.UUID) (completed, plannedAll map[string]struct{}, err error) {
	completed = map[string]struct{}{}
	plannedAll = map[string]struct{}{}

	cutoff := 0
	if upToSemesterID != nil {
		for _, s := range dp.Semesters {
			if s.ID == *upToSemesterID {
				cutoff = s.NthSemester
				break
			}
		}
		if cutoff == 0 {
			return nil, nil, apierr.NotFound("semester_not_found",
				"no plan semester %s for this user", *upToSemesterID)
		}
	}

	for _, s := range dp.Semesters {
		for _, pc := range s.Courses {
			plannedAll[pc.CourseCode] = struct{}{}
			if cutoff == 0 || s.NthSemester < cutoff {
				completed[pc.CourseCode] = struct{}{}
			}
		}
	}
	return completed, plannedAll, nil
}

// evaluate applies the eligibility rule. Already-planned wins as the
// reported reason even when prerequisites are also missing.
func evaluate(course *domain.CourseWithLinks, completed, plannedAll map[string]struct{}) EligibilityResult {
	result := EligibilityResult{CourseCode: course.CourseCode}

	if _, planned := plannedAll[course.CourseCode]; planned {
		result.Reason = reasonAlreadyPlanned
		return result
	}

	var missing []string
	for _, prereq := range course.PrerequisiteCodes {
		if _, done := completed[prereq]; !done {
			missing = append(missing, prereq)
		}
	}
	if len(missing) > 0 {
		result.MissingPrerequisites = missing
		result.Reason = fmt.Sprintf("Missing prerequisites: %s", strings.Join(missing, ", "))
		return result
	}

	result.Eligible = true
	return result
}
