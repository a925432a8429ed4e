package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/degreeplanner-backend/internal/data/graph"
	plan "github.com/yungbote/degreeplanner-backend/internal/data/repos/plan"
	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

// PlannerService owns the student's working plan state: the degree plan,
// its semester sequence and the planned courses inside them. The plan
// store (Postgres) and the catalog store (Neo4j) are independently
// consistent; planned courses reference the catalog by code only.
type PlannerService interface {
	// GetOrCreatePlan provisions an empty plan on first access.
	GetOrCreatePlan(ctx context.Context, userID uuid.UUID) (*domain.DegreePlan, error)
	GetPlanSemester(ctx context.Context, userID, semesterID uuid.UUID) (*domain.PlanSemester, error)
	AddSemester(ctx context.Context, userID uuid.UUID, year int, term domain.Term) (*domain.PlanSemester, error)
	DeleteSemester(ctx context.Context, userID, semesterID uuid.UUID) (bool, error)
	AddPlannedCourse(ctx context.Context, userID, semesterID uuid.UUID, courseCode string) (*domain.PlannedCourse, error)
	DeletePlannedCourse(ctx context.Context, userID, plannedCourseID uuid.UUID) (bool, error)
	// DeletePlannedCourseWithDependents removes the course and, across
	// all strictly later semesters, every planned course whose code
	// transitively depends on it. Returns everything removed.
	DeletePlannedCourseWithDependents(ctx context.Context, userID, plannedCourseID uuid.UUID) ([]*domain.PlannedCourse, error)
}

type plannerService struct {
	log          *logger.Logger
	planRepo     plan.DegreePlanRepo
	semesterRepo plan.PlanSemesterRepo
	plannedRepo  plan.PlannedCourseRepo
	courses      graph.CourseStore
	// runTx wraps multi-statement deletes in one transaction.
	runTx func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func NewPlannerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	planRepo plan.DegreePlanRepo,
	semesterRepo plan.PlanSemesterRepo,
	plannedRepo plan.PlannedCourseRepo,
	courses graph.CourseStore,
) PlannerService {
	return &plannerService{
		log:          baseLog.With("service", "PlannerService"),
		planRepo:     planRepo,
		semesterRepo: semesterRepo,
		plannedRepo:  plannedRepo,
		courses:      courses,
		runTx: func(ctx context.Context, fn func(tx *gorm.DB) error) error {
			return db.WithContext(ctx).Transaction(fn)
		},
	}
}

func (ps *plannerService) GetOrCreatePlan(ctx context.Context, userID uuid.UUID) (*domain.DegreePlan, error) {
	existing, err := ps.planRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load degree plan: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := ps.planRepo.Create(ctx, nil, &domain.DegreePlan{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("create degree plan: %w", err)
	}
	ps.log.Info("degree plan provisioned", "user_id", userID)
	return created, nil
}

func (ps *plannerService) GetPlanSemester(ctx context.Context, userID, semesterID uuid.UUID) (*domain.PlanSemester, error) {
	_, semester, err := ps.ownedSemester(ctx, userID, semesterID)
	return semester, err
}

func (ps *plannerService) AddSemester(ctx context.Context, userID uuid.UUID, year int, term domain.Term) (*domain.PlanSemester, error) {
	if year < 1900 || year > 2100 {
		return nil, apierr.Validation("year_invalid", "year %d is out of range", year)
	}
	if _, ok := domain.ParseTerm(string(term)); !ok {
		return nil, apierr.Validation("term_invalid", "unknown term %q", term)
	}

	dp, err := ps.GetOrCreatePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	ordinal := len(dp.Semesters) + 1
	if ordinal > 1 {
		prev := dp.Semesters[ordinal-2]
		if len(prev.Courses) == 0 {
			return nil, apierr.Validation("previous_semester_empty",
				"semester %d (%s %d) has no planned courses yet", prev.NthSemester, prev.Term, prev.Year)
		}
		if !domain.IsValidNextTerm(prev.Term, term) {
			return nil, apierr.Validation("term_sequence_invalid",
				"after %s the next semester must be one of: %s", prev.Term, joinTerms(domain.ValidNextTerms(prev.Term)))
		}
	}

	exists, err := ps.semesterRepo.Exists(ctx, nil, dp.ID, year, term)
	if err != nil {
		return nil, fmt.Errorf("check semester uniqueness: %w", err)
	}
	if exists {
		return nil, apierr.Duplicate("semester_exists",
			"the plan already has a %s %d semester", term, year)
	}

	semester, err := ps.semesterRepo.Create(ctx, nil, &domain.PlanSemester{
		DegreePlanID: dp.ID,
		Year:         year,
		Term:         term,
		NthSemester:  ordinal,
	})
	if err != nil {
		return nil, fmt.Errorf("create semester: %w", err)
	}
	return semester, nil
}

func (ps *plannerService) DeleteSemester(ctx context.Context, userID, semesterID uuid.UUID) (bool, error) {
	dp, semester, err := ps.ownedSemester(ctx, userID, semesterID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	err = ps.runTx(ctx, func(tx *gorm.DB) error {
		if err := ps.semesterRepo.DeleteByIDs(ctx, tx, []uuid.UUID{semester.ID}); err != nil {
			return err
		}
		return ps.semesterRepo.ShiftOrdinalsAfter(ctx, tx, dp.ID, semester.NthSemester)
	})
	if err != nil {
		return false, fmt.Errorf("delete semester: %w", err)
	}
	return true, nil
}

func (ps *plannerService) AddPlannedCourse(ctx context.Context, userID, semesterID uuid.UUID, courseCode string) (*domain.PlannedCourse, error) {
	code := strings.ToUpper(strings.TrimSpace(courseCode))
	if code == "" {
		return nil, apierr.Validation("course_code_required", "course_code is required")
	}

	_, semester, err := ps.ownedSemester(ctx, userID, semesterID)
	if err != nil {
		return nil, err
	}

	catalogCourse, err := ps.courses.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("look up course %s: %w", code, err)
	}
	if catalogCourse == nil {
		return nil, apierr.NotFound("course_not_found", "no catalog course with code %q", code)
	}

	planned, err := ps.plannedRepo.ExistsInSemester(ctx, nil, semester.ID, code)
	if err != nil {
		return nil, fmt.Errorf("check planned course uniqueness: %w", err)
	}
	if planned {
		return nil, apierr.Duplicate("course_already_planned",
			"%s is already planned in this semester", code)
	}

	category := ""
	if len(catalogCourse.Categories) > 0 {
		category = catalogCourse.Categories[0]
	}
	rows, err := ps.plannedRepo.Create(ctx, nil, []*domain.PlannedCourse{{
		PlanSemesterID: semester.ID,
		CourseCode:     code,
		CourseTitle:    catalogCourse.CourseTitle,
		Credits:        catalogCourse.SCHCredits,
		Category:       category,
		Status:         "planned",
	}})
	if err != nil {
		return nil, fmt.Errorf("create planned course: %w", err)
	}
	return rows[0], nil
}

func (ps *plannerService) DeletePlannedCourse(ctx context.Context, userID, plannedCourseID uuid.UUID) (bool, error) {
	target, _, err := ps.ownedPlannedCourse(ctx, userID, plannedCourseID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := ps.plannedRepo.DeleteByIDs(ctx, nil, []uuid.UUID{target.ID}); err != nil {
		return false, fmt.Errorf("delete planned course: %w", err)
	}
	return true, nil
}

func (ps *plannerService) DeletePlannedCourseWithDependents(ctx context.Context, userID, plannedCourseID uuid.UUID) ([]*domain.PlannedCourse, error) {
	target, dp, err := ps.ownedPlannedCourse(ctx, userID, plannedCourseID)
	if err != nil {
		return nil, err
	}

	targetOrdinal := 0
	for _, s := range dp.Semesters {
		if s.ID == target.PlanSemesterID {
			targetOrdinal = s.NthSemester
			break
		}
	}

	catalog, err := ps.courses.Catalog(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load catalog for cascade: %w", err)
	}
	dependents := dependentClosure(catalog, target.CourseCode)

	removed := []*domain.PlannedCourse{target}
	for _, s := range dp.Semesters {
		if s.NthSemester <= targetOrdinal {
			continue
		}
		for _, pc := range s.Courses {
			if _, hit := dependents[pc.CourseCode]; hit {
				removed = append(removed, pc)
			}
		}
	}

	ids := make([]uuid.UUID, 0, len(removed))
	for _, pc := range removed {
		ids = append(ids, pc.ID)
	}
	err = ps.runTx(ctx, func(tx *gorm.DB) error {
		return ps.plannedRepo.DeleteByIDs(ctx, tx, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("cascade delete planned courses: %w", err)
	}
	ps.log.Info("planned course removed with dependents",
		"user_id", userID, "course_code", target.CourseCode, "removed", len(removed))
	return removed, nil
}

// dependentClosure walks the catalog's direct dependent sets outward
// from code. The visited set bounds the walk on any graph shape.
func dependentClosure(catalog []*domain.CourseWithLinks, code string) map[string]struct{} {
	direct := make(map[string][]string, len(catalog))
	for _, c := range catalog {
		direct[c.CourseCode] = c.DependentCodes
	}

	closure := map[string]struct{}{}
	queue := []string{code}
	visited := map[string]struct{}{code: {}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range direct[cur] {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			closure[dep] = struct{}{}
			queue = append(queue, dep)
		}
	}
	return closure
}

func (ps *plannerService) ownedSemester(ctx context.Context, userID, semesterID uuid.UUID) (*domain.DegreePlan, *domain.PlanSemester, error) {
	dp, err := ps.GetOrCreatePlan(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range dp.Semesters {
		if s.ID == semesterID {
			return dp, s, nil
		}
	}
	return nil, nil, apierr.NotFound("semester_not_found", "no plan semester %s for this user", semesterID)
}

func (ps *plannerService) ownedPlannedCourse(ctx context.Context, userID, plannedCourseID uuid.UUID) (*domain.PlannedCourse, *domain.DegreePlan, error) {
	dp, err := ps.GetOrCreatePlan(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range dp.Semesters {
		for _, pc := range s.Courses {
			if pc.ID == plannedCourseID {
				return pc, dp, nil
			}
		}
	}
	return nil, nil, apierr.NotFound("planned_course_not_found", "no planned course %s for this user", plannedCourseID)
}

func joinTerms(terms []domain.Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}
