package services

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeCourseStore keeps the catalog in memory, keyed by course code.
type fakeCourseStore struct {
	byCode map[string]*domain.CourseWithLinks
}

func newFakeCourseStore(courses ...*domain.CourseWithLinks) *fakeCourseStore {
	s := &fakeCourseStore{byCode: map[string]*domain.CourseWithLinks{}}
	for _, c := range courses {
		s.byCode[c.CourseCode] = c
	}
	return s
}

func (s *fakeCourseStore) List(ctx context.Context, skip, limit int, filter domain.CourseFilter) ([]*domain.Course, int, error) {
	all, err := s.Catalog(ctx, filter.Search)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Course, 0, len(all))
	for _, c := range all {
		course := c.Course
		out = append(out, &course)
	}
	return out, len(out), nil
}

func (s *fakeCourseStore) GetByID(ctx context.Context, id string) (*domain.CourseWithLinks, error) {
	for _, c := range s.byCode {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *fakeCourseStore) GetByCode(ctx context.Context, code string) (*domain.CourseWithLinks, error) {
	return s.byCode[code], nil
}

func (s *fakeCourseStore) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if _, exists := s.byCode[course.CourseCode]; exists {
		return nil, apierr.Duplicate("course_code_exists", "course %s already exists", course.CourseCode)
	}
	s.byCode[course.CourseCode] = &domain.CourseWithLinks{Course: *course}
	return course, nil
}

func (s *fakeCourseStore) Update(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error) {
	for _, c := range s.byCode {
		if c.ID == id {
			if patch.CourseTitle != nil {
				c.CourseTitle = *patch.CourseTitle
			}
			course := c.Course
			return &course, nil
		}
	}
	return nil, nil
}

func (s *fakeCourseStore) Delete(ctx context.Context, id string) (bool, error) {
	for code, c := range s.byCode {
		if c.ID == id {
			delete(s.byCode, code)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCourseStore) Catalog(ctx context.Context, search string) ([]*domain.CourseWithLinks, error) {
	out := make([]*domain.CourseWithLinks, 0, len(s.byCode))
	for _, c := range s.byCode {
		if search != "" && !strings.Contains(strings.ToLower(c.CourseCode+" "+c.CourseTitle), strings.ToLower(search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseCode < out[j].CourseCode })
	return out, nil
}

// fakePrereqStore serves edge queries from a prereq adjacency map keyed
// by course id.
type fakePrereqStore struct {
	prereqs   map[string][]string
	cycleOn   map[[2]string]bool
	inserted  [][2]string
	deleted   [][2]string
	relCalls  int
	relations map[string]*domain.CourseRelationships
}

func newFakePrereqStore() *fakePrereqStore {
	return &fakePrereqStore{
		prereqs:   map[string][]string{},
		cycleOn:   map[[2]string]bool{},
		relations: map[string]*domain.CourseRelationships{},
	}
}

func (s *fakePrereqStore) Prerequisites(ctx context.Context, courseID string) ([]*domain.Course, error) {
	out := []*domain.Course{}
	for _, p := range s.prereqs[courseID] {
		out = append(out, &domain.Course{ID: p})
	}
	return out, nil
}

func (s *fakePrereqStore) Dependents(ctx context.Context, courseID string) ([]*domain.Course, error) {
	out := []*domain.Course{}
	for id, ps := range s.prereqs {
		for _, p := range ps {
			if p == courseID {
				out = append(out, &domain.Course{ID: id})
			}
		}
	}
	return out, nil
}

func (s *fakePrereqStore) PrerequisiteChain(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return s.Prerequisites(ctx, courseID)
}

func (s *fakePrereqStore) DependentChain(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return s.Dependents(ctx, courseID)
}

func (s *fakePrereqStore) WouldCreateCycle(ctx context.Context, prereqID, courseID string) (bool, error) {
	return s.cycleOn[[2]string{prereqID, courseID}], nil
}

func (s *fakePrereqStore) CreateRequires(ctx context.Context, prereqID, courseID string) (*domain.Requires, error) {
	s.prereqs[courseID] = append(s.prereqs[courseID], prereqID)
	s.inserted = append(s.inserted, [2]string{prereqID, courseID})
	return &domain.Requires{Type: "REQUIRES", StartID: courseID, EndID: prereqID}, nil
}

func (s *fakePrereqStore) CreateRequiresIfAcyclic(ctx context.Context, prereqID, courseID string) (*domain.Requires, bool, error) {
	if s.cycleOn[[2]string{prereqID, courseID}] {
		return nil, false, nil
	}
	edge, err := s.CreateRequires(ctx, prereqID, courseID)
	return edge, true, err
}

func (s *fakePrereqStore) DeleteRequires(ctx context.Context, prereqID, courseID string) (bool, error) {
	existing := s.prereqs[courseID]
	for i, p := range existing {
		if p == prereqID {
			s.prereqs[courseID] = append(existing[:i], existing[i+1:]...)
			s.deleted = append(s.deleted, [2]string{prereqID, courseID})
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePrereqStore) AllRelationships(ctx context.Context) (map[string]*domain.CourseRelationships, error) {
	s.relCalls++
	return s.relations, nil
}

// fakeRelCache records cache traffic for assertions.
type fakeRelCache struct {
	rels        map[string]*domain.CourseRelationships
	setCalls    int
	invalidated int
}

func (c *fakeRelCache) Get(ctx context.Context) (map[string]*domain.CourseRelationships, bool) {
	if c.rels == nil {
		return nil, false
	}
	return c.rels, true
}

func (c *fakeRelCache) Set(ctx context.Context, rels map[string]*domain.CourseRelationships) {
	c.setCalls++
	c.rels = rels
}

func (c *fakeRelCache) Invalidate(ctx context.Context) {
	c.invalidated++
	c.rels = nil
}

func (c *fakeRelCache) Close() error { return nil }

// planState is shared backing storage for the plan repo fakes so a test
// observes its own writes the way the preloading repos would.
type planState struct {
	plan *domain.DegreePlan
}

type fakeDegreePlanRepo struct{ s *planState }

func (r *fakeDegreePlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *domain.DegreePlan) (*domain.DegreePlan, error) {
	plan.ID = uuid.New()
	r.s.plan = plan
	return plan, nil
}

func (r *fakeDegreePlanRepo) GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*domain.DegreePlan, error) {
	if r.s.plan != nil && r.s.plan.ID == planID {
		return r.s.plan, nil
	}
	return nil, nil
}

func (r *fakeDegreePlanRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.DegreePlan, error) {
	if r.s.plan != nil && r.s.plan.UserID == userID {
		return r.s.plan, nil
	}
	return nil, nil
}

type fakePlanSemesterRepo struct{ s *planState }

func (r *fakePlanSemesterRepo) Create(ctx context.Context, tx *gorm.DB, semester *domain.PlanSemester) (*domain.PlanSemester, error) {
	semester.ID = uuid.New()
	r.s.plan.Semesters = append(r.s.plan.Semesters, semester)
	return semester, nil
}

func (r *fakePlanSemesterRepo) GetByID(ctx context.Context, tx *gorm.DB, semesterID uuid.UUID) (*domain.PlanSemester, error) {
	for _, s := range r.s.plan.Semesters {
		if s.ID == semesterID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakePlanSemesterRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*domain.PlanSemester, error) {
	return r.s.plan.Semesters, nil
}

func (r *fakePlanSemesterRepo) Exists(ctx context.Context, tx *gorm.DB, planID uuid.UUID, year int, term domain.Term) (bool, error) {
	for _, s := range r.s.plan.Semesters {
		if s.Year == year && s.Term == term {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePlanSemesterRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, semesterIDs []uuid.UUID) error {
	keep := r.s.plan.Semesters[:0]
	for _, s := range r.s.plan.Semesters {
		drop := false
		for _, id := range semesterIDs {
			if s.ID == id {
				drop = true
			}
		}
		if !drop {
			keep = append(keep, s)
		}
	}
	r.s.plan.Semesters = keep
	return nil
}

func (r *fakePlanSemesterRepo) ShiftOrdinalsAfter(ctx context.Context, tx *gorm.DB, planID uuid.UUID, after int) error {
	for _, s := range r.s.plan.Semesters {
		if s.NthSemester > after {
			s.NthSemester--
		}
	}
	return nil
}

type fakePlannedCourseRepo struct{ s *planState }

func (r *fakePlannedCourseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*domain.PlannedCourse) ([]*domain.PlannedCourse, error) {
	for _, pc := range courses {
		pc.ID = uuid.New()
		for _, s := range r.s.plan.Semesters {
			if s.ID == pc.PlanSemesterID {
				s.Courses = append(s.Courses, pc)
			}
		}
	}
	return courses, nil
}

func (r *fakePlannedCourseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.PlannedCourse, error) {
	var out []*domain.PlannedCourse
	for _, s := range r.s.plan.Semesters {
		for _, pc := range s.Courses {
			for _, id := range ids {
				if pc.ID == id {
					out = append(out, pc)
				}
			}
		}
	}
	return out, nil
}

func (r *fakePlannedCourseRepo) GetBySemesterIDs(ctx context.Context, tx *gorm.DB, semesterIDs []uuid.UUID) ([]*domain.PlannedCourse, error) {
	var out []*domain.PlannedCourse
	for _, s := range r.s.plan.Semesters {
		for _, id := range semesterIDs {
			if s.ID == id {
				out = append(out, s.Courses...)
			}
		}
	}
	return out, nil
}

func (r *fakePlannedCourseRepo) ExistsInSemester(ctx context.Context, tx *gorm.DB, semesterID uuid.UUID, courseCode string) (bool, error) {
	for _, s := range r.s.plan.Semesters {
		if s.ID != semesterID {
			continue
		}
		for _, pc := range s.Courses {
			if pc.CourseCode == courseCode {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakePlannedCourseRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, s := range r.s.plan.Semesters {
		keep := s.Courses[:0]
		for _, pc := range s.Courses {
			drop := false
			for _, id := range ids {
				if pc.ID == id {
					drop = true
				}
			}
			if !drop {
				keep = append(keep, pc)
			}
		}
		s.Courses = keep
	}
	return nil
}

// stubPlanner hands the eligibility service a pre-built plan.
type stubPlanner struct{ plan *domain.DegreePlan }

func (p *stubPlanner) GetOrCreatePlan(ctx context.Context, userID uuid.UUID) (*domain.DegreePlan, error) {
	return p.plan, nil
}

func (p *stubPlanner) GetPlanSemester(ctx context.Context, userID, semesterID uuid.UUID) (*domain.PlanSemester, error) {
	for _, s := range p.plan.Semesters {
		if s.ID == semesterID {
			return s, nil
		}
	}
	return nil, apierr.NotFound("semester_not_found", "no plan semester %s", semesterID)
}

func (p *stubPlanner) AddSemester(ctx context.Context, userID uuid.UUID, year int, term domain.Term) (*domain.PlanSemester, error) {
	return nil, nil
}

func (p *stubPlanner) DeleteSemester(ctx context.Context, userID, semesterID uuid.UUID) (bool, error) {
	return false, nil
}

func (p *stubPlanner) AddPlannedCourse(ctx context.Context, userID, semesterID uuid.UUID, courseCode string) (*domain.PlannedCourse, error) {
	return nil, nil
}

func (p *stubPlanner) DeletePlannedCourse(ctx context.Context, userID, plannedCourseID uuid.UUID) (bool, error) {
	return false, nil
}

func (p *stubPlanner) DeletePlannedCourseWithDependents(ctx context.Context, userID, plannedCourseID uuid.UUID) ([]*domain.PlannedCourse, error) {
	return nil, nil
}

func courseWithLinks(code string, prereqs, dependents []string) *domain.CourseWithLinks {
	return &domain.CourseWithLinks{
		Course: domain.Course{
			ID:          "COURSE_" + code,
			CourseCode:  code,
			CourseTitle: code + " title",
			Description: code + " description",
			SCHCredits:  3,
			Categories:  []string{"Core"},
			Disciplines: []string{"Computer Science"},
		},
		PrerequisiteCodes: prereqs,
		DependentCodes:    dependents,
	}
}
