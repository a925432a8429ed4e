package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/yungbote/degreeplanner-backend/internal/clients/redis"
	"github.com/yungbote/degreeplanner-backend/internal/data/graph"
	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

// CatalogService is the admin-facing CRUD surface over the course graph.
type CatalogService interface {
	ListCourses(ctx context.Context, skip, limit int, filter domain.CourseFilter) ([]*domain.Course, int, error)
	// GetCourse resolves by node id first, then by course code.
	// Returns nil when neither matches.
	GetCourse(ctx context.Context, idOrCode string) (*domain.CourseWithLinks, error)
	SearchCourses(ctx context.Context, query string) ([]*domain.Course, error)
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	// UpdateCourse applies the allow-listed patch. An empty patch is a
	// no-op returning current state; an unknown id returns nil.
	UpdateCourse(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error)
	// DeleteCourse detach-deletes the node; false means it was absent.
	DeleteCourse(ctx context.Context, id string) (bool, error)
}

type CreateCourseInput struct {
	ID              string   `json:"id"`
	CourseCode      string   `json:"course_code"`
	CourseTitle     string   `json:"course_title"`
	Description     string   `json:"description"`
	SCHCredits      int      `json:"sch_credits"`
	NCredits        int      `json:"n_credits"`
	IsElective      bool     `json:"isElective"`
	IsMinorElective bool     `json:"isMinorElective"`
	IsSpecElective  bool     `json:"isSpecElective"`
	Categories      []string `json:"categories"`
	Disciplines     []string `json:"disciplines"`
	Labels          []string `json:"labels"`
}

var courseCodePattern = regexp.MustCompile(`^[A-Za-z]{2,4}[0-9]{3,4}$`)

type catalogService struct {
	log      *logger.Logger
	courses  graph.CourseStore
	relCache redis.RelationshipCache
}

func NewCatalogService(baseLog *logger.Logger, courses graph.CourseStore, relCache redis.RelationshipCache) CatalogService {
	return &catalogService{
		log:      baseLog.With("service", "CatalogService"),
		courses:  courses,
		relCache: relCache,
	}
}

func (cs *catalogService) ListCourses(ctx context.Context, skip, limit int, filter domain.CourseFilter) ([]*domain.Course, int, error) {
	return cs.courses.List(ctx, skip, limit, filter)
}

func (cs *catalogService) GetCourse(ctx context.Context, idOrCode string) (*domain.CourseWithLinks, error) {
	idOrCode = strings.TrimSpace(idOrCode)
	if idOrCode == "" {
		return nil, apierr.Validation("course_ref_required", "course id or code required")
	}
	course, err := cs.courses.GetByID(ctx, idOrCode)
	if err != nil {
		return nil, err
	}
	if course != nil {
		return course, nil
	}
	return cs.courses.GetByCode(ctx, strings.ToUpper(idOrCode))
}

func (cs *catalogService) SearchCourses(ctx context.Context, query string) ([]*domain.Course, error) {
	courses, _, err := cs.courses.List(ctx, 0, 200, domain.CourseFilter{Search: strings.TrimSpace(query)})
	return courses, err
}

func (cs *catalogService) CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	code := strings.ToUpper(strings.TrimSpace(input.CourseCode))
	if code == "" {
		return nil, apierr.Validation("course_code_required", "course_code is required")
	}
	if !courseCodePattern.MatchString(code) {
		return nil, apierr.Validation("course_code_invalid",
			"course_code %q must be 2-4 letters followed by 3-4 digits", code)
	}
	if strings.TrimSpace(input.CourseTitle) == "" {
		return nil, apierr.Validation("course_title_required", "course_title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apierr.Validation("description_required", "description is required")
	}
	if input.SCHCredits < 0 || input.NCredits < 0 {
		return nil, apierr.Validation("credits_negative", "credit fields must be non-negative")
	}
	if len(trimAll(input.Categories)) == 0 {
		return nil, apierr.Validation("categories_required", "at least one category is required")
	}
	if len(trimAll(input.Disciplines)) == 0 {
		return nil, apierr.Validation("disciplines_required", "at least one discipline is required")
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = "COURSE_" + code
	}
	labels := input.Labels
	if len(labels) == 0 {
		labels = []string{"Course"}
	}

	course := &domain.Course{
		ID:              id,
		CourseCode:      code,
		CourseTitle:     strings.TrimSpace(input.CourseTitle),
		Description:     strings.TrimSpace(input.Description),
		SCHCredits:      input.SCHCredits,
		NCredits:        input.NCredits,
		IsElective:      input.IsElective,
		IsMinorElective: input.IsMinorElective,
		IsSpecElective:  input.IsSpecElective,
		Categories:      trimAll(input.Categories),
		Disciplines:     trimAll(input.Disciplines),
		Labels:          labels,
	}

	created, err := cs.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	cs.invalidateRelationships(ctx)
	cs.log.Info("course created", "course_code", created.CourseCode)
	return created, nil
}

func (cs *catalogService) UpdateCourse(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error) {
	if patch.SCHCredits != nil && *patch.SCHCredits < 0 {
		return nil, apierr.Validation("credits_negative", "sch_credits must be non-negative")
	}
	if patch.NCredits != nil && *patch.NCredits < 0 {
		return nil, apierr.Validation("credits_negative", "n_credits must be non-negative")
	}
	if patch.Categories != nil && len(trimAll(patch.Categories)) == 0 {
		return nil, apierr.Validation("categories_required", "categories cannot be emptied")
	}
	if patch.Disciplines != nil && len(trimAll(patch.Disciplines)) == 0 {
		return nil, apierr.Validation("disciplines_required", "disciplines cannot be emptied")
	}
	return cs.courses.Update(ctx, id, patch)
}

func (cs *catalogService) DeleteCourse(ctx context.Context, id string) (bool, error) {
	removed, err := cs.courses.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		cs.invalidateRelationships(ctx)
		cs.log.Info("course deleted", "course_id", id)
	}
	return removed, nil
}

func (cs *catalogService) invalidateRelationships(ctx context.Context) {
	if cs.relCache != nil {
		cs.relCache.Invalidate(ctx)
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
