package services

import (
	"context"

	"github.com/yungbote/degreeplanner-backend/internal/clients/redis"
	"github.com/yungbote/degreeplanner-backend/internal/data/graph"
	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

// DependencyService answers prerequisite/dependent queries and guards
// edge mutations so the catalog graph stays acyclic.
type DependencyService interface {
	GetPrerequisites(ctx context.Context, courseID string) ([]*domain.Course, error)
	GetDependents(ctx context.Context, courseID string) ([]*domain.Course, error)
	GetPrerequisiteChain(ctx context.Context, courseID string) ([]*domain.Course, error)
	GetDependentChain(ctx context.Context, courseID string) ([]*domain.Course, error)
	WouldCreateCircularDependency(ctx context.Context, candidatePrereqID, courseID string) (bool, error)
	// AddPrerequisite inserts courseID-[:REQUIRES]->prereqID atomically
	// with the cycle re-check; a positive check surfaces as a Conflict
	// error, never as a silently dropped edge.
	AddPrerequisite(ctx context.Context, prereqID, courseID string) (*domain.Requires, error)
	RemovePrerequisite(ctx context.Context, prereqID, courseID string) (bool, error)
	GetAllCourseRelationships(ctx context.Context) (map[string]*domain.CourseRelationships, error)
}

type dependencyService struct {
	log      *logger.Logger
	prereqs  graph.PrereqStore
	relCache redis.RelationshipCache
}

func NewDependencyService(baseLog *logger.Logger, prereqs graph.PrereqStore, relCache redis.RelationshipCache) DependencyService {
	return &dependencyService{
		log:      baseLog.With("service", "DependencyService"),
		prereqs:  prereqs,
		relCache: relCache,
	}
}

func (ds *dependencyService) GetPrerequisites(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return ds.prereqs.Prerequisites(ctx, courseID)
}

func (ds *dependencyService) GetDependents(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return ds.prereqs.Dependents(ctx, courseID)
}

func (ds *dependencyService) GetPrerequisiteChain(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return ds.prereqs.PrerequisiteChain(ctx, courseID)
}

func (ds *dependencyService) GetDependentChain(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return ds.prereqs.DependentChain(ctx, courseID)
}

func (ds *dependencyService) WouldCreateCircularDependency(ctx context.Context, candidatePrereqID, courseID string) (bool, error) {
	return ds.prereqs.WouldCreateCycle(ctx, candidatePrereqID, courseID)
}

func (ds *dependencyService) AddPrerequisite(ctx context.Context, prereqID, courseID string) (*domain.Requires, error) {
	if prereqID == "" || courseID == "" {
		return nil, apierr.Validation("course_ids_required", "both course ids are required")
	}
	if prereqID == courseID {
		return nil, apierr.Validation("self_prerequisite", "a course cannot require itself")
	}

	edge, inserted, err := ds.prereqs.CreateRequiresIfAcyclic(ctx, prereqID, courseID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, apierr.Conflict("circular_dependency",
			"adding %q as a prerequisite of %q would create a circular dependency", prereqID, courseID)
	}
	ds.invalidate(ctx)
	ds.log.Info("prerequisite added", "course_id", courseID, "prereq_id", prereqID)
	return edge, nil
}

func (ds *dependencyService) RemovePrerequisite(ctx context.Context, prereqID, courseID string) (bool, error) {
	removed, err := ds.prereqs.DeleteRequires(ctx, prereqID, courseID)
	if err != nil {
		return false, err
	}
	if removed {
		ds.invalidate(ctx)
		ds.log.Info("prerequisite removed", "course_id", courseID, "prereq_id", prereqID)
	}
	return removed, nil
}

func (ds *dependencyService) GetAllCourseRelationships(ctx context.Context) (map[string]*domain.CourseRelationships, error) {
	if ds.relCache != nil {
		if rels, ok := ds.relCache.Get(ctx); ok {
			return rels, nil
		}
	}
	rels, err := ds.prereqs.AllRelationships(ctx)
	if err != nil {
		return nil, err
	}
	if ds.relCache != nil {
		ds.relCache.Set(ctx, rels)
	}
	return rels, nil
}

func (ds *dependencyService) invalidate(ctx context.Context) {
	if ds.relCache != nil {
		ds.relCache.Invalidate(ctx)
	}
}
