package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/platform/neo4jdb"
)

const requiresType = "REQUIRES"

// PrereqStore runs the REQUIRES traversals. Chain queries use Cypher
// variable-length matches, which never reuse a relationship within one
// path, so they terminate even on a graph that somehow acquired a cycle.
type PrereqStore interface {
	Prerequisites(ctx context.Context, courseID string) ([]*domain.Course, error)
	Dependents(ctx context.Context, courseID string) ([]*domain.Course, error)
	PrerequisiteChain(ctx context.Context, courseID string) ([]*domain.Course, error)
	DependentChain(ctx context.Context, courseID string) ([]*domain.Course, error)
	WouldCreateCycle(ctx context.Context, prereqID, courseID string) (bool, error)
	CreateRequires(ctx context.Context, prereqID, courseID string) (*domain.Requires, error)
	CreateRequiresIfAcyclic(ctx context.Context, prereqID, courseID string) (*domain.Requires, bool, error)
	DeleteRequires(ctx context.Context, prereqID, courseID string) (bool, error)
	AllRelationships(ctx context.Context) (map[string]*domain.CourseRelationships, error)
}

type prereqStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewPrereqStore(client *neo4jdb.Client, baseLog *logger.Logger) PrereqStore {
	return &prereqStore{client: client, log: baseLog.With("store", "PrereqStore")}
}

func (s *prereqStore) Prerequisites(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return s.neighbors(ctx, `
MATCH (c:Course {id: $id})-[:REQUIRES]->(p:Course)
RETURN p AS course ORDER BY p.course_code
`, courseID)
}

func (s *prereqStore) Dependents(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return s.neighbors(ctx, `
MATCH (d:Course)-[:REQUIRES]->(c:Course {id: $id})
RETURN d AS course ORDER BY d.course_code
`, courseID)
}

func (s *prereqStore) PrerequisiteChain(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return s.neighbors(ctx, `
MATCH (c:Course {id: $id})-[:REQUIRES*1..]->(p:Course)
RETURN DISTINCT p AS course ORDER BY p.course_code
`, courseID)
}

func (s *prereqStore) DependentChain(ctx context.Context, courseID string) ([]*domain.Course, error) {
	return s.neighbors(ctx, `
MATCH (d:Course)-[:REQUIRES*1..]->(c:Course {id: $id})
RETURN DISTINCT d AS course ORDER BY d.course_code
`, courseID)
}

func (s *prereqStore) neighbors(ctx context.Context, query, courseID string) ([]*domain.Course, error) {
	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": courseID})
		if err != nil {
			return nil, err
		}
		courses := []*domain.Course{}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("course"); ok {
				if node, ok := v.(neo4j.Node); ok {
					courses = append(courses, courseFromNode(node))
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return courses, nil
	})
	if err != nil {
		return nil, fmt.Errorf("traverse requires: %w", err)
	}
	return result.([]*domain.Course), nil
}

const cycleCheckQuery = `
MATCH (p:Course {id: $prereq_id})
MATCH (c:Course {id: $course_id})
RETURN p.id = c.id OR EXISTS { MATCH (p)-[:REQUIRES*1..]->(c) } AS would_cycle
`

// WouldCreateCycle reports whether inserting courseID-[:REQUIRES]->prereqID
// would close a cycle, i.e. whether prereqID already reaches courseID.
// A self-edge counts as a cycle. Missing endpoints report false.
func (s *prereqStore) WouldCreateCycle(ctx context.Context, prereqID, courseID string) (bool, error) {
	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cycleCheckQuery,
			map[string]any{"prereq_id": prereqID, "course_id": courseID})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return false, nil
		}
		v, _ := res.Record().Get("would_cycle")
		cycle, _ := v.(bool)
		return cycle, nil
	})
	if err != nil {
		return false, fmt.Errorf("cycle check: %w", err)
	}
	return result.(bool), nil
}

// CreateRequires merges the edge unconditionally. Callers that have not
// already run the cycle check should use CreateRequiresIfAcyclic.
func (s *prereqStore) CreateRequires(ctx context.Context, prereqID, courseID string) (*domain.Requires, error) {
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Course {id: $course_id})
MATCH (p:Course {id: $prereq_id})
MERGE (c)-[:REQUIRES]->(p)
RETURN c.id AS course_id
`, map[string]any{"course_id": courseID, "prereq_id": prereqID})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, apierr.NotFound("course_not_found",
				"course %q or prerequisite %q does not exist", courseID, prereqID)
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return &domain.Requires{Type: requiresType, StartID: courseID, EndID: prereqID}, nil
}

// CreateRequiresIfAcyclic re-runs the reachability check and merges the
// edge inside one write transaction, so no concurrent insert can slip a
// cycle in between check and act. The bool reports whether the edge was
// inserted (false means the check tripped).
func (s *prereqStore) CreateRequiresIfAcyclic(ctx context.Context, prereqID, courseID string) (*domain.Requires, bool, error) {
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	params := map[string]any{"prereq_id": prereqID, "course_id": courseID}

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cycleCheckQuery, params)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, apierr.NotFound("course_not_found",
				"course %q or prerequisite %q does not exist", courseID, prereqID)
		}
		v, _ := res.Record().Get("would_cycle")
		if cycle, _ := v.(bool); cycle {
			return false, nil
		}

		res, err = tx.Run(ctx, `
MATCH (c:Course {id: $course_id})
MATCH (p:Course {id: $prereq_id})
MERGE (c)-[:REQUIRES]->(p)
`, params)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return true, nil
	})
	if err != nil {
		return nil, false, err
	}
	if inserted := result.(bool); !inserted {
		return nil, false, nil
	}
	return &domain.Requires{Type: requiresType, StartID: courseID, EndID: prereqID}, true, nil
}

func (s *prereqStore) DeleteRequires(ctx context.Context, prereqID, courseID string) (bool, error) {
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Course {id: $course_id})-[r:REQUIRES]->(p:Course {id: $prereq_id})
DELETE r
`, map[string]any{"course_id": courseID, "prereq_id": prereqID})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().RelationshipsDeleted() > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete requires: %w", err)
	}
	return result.(bool), nil
}

func (s *prereqStore) AllRelationships(ctx context.Context) (map[string]*domain.CourseRelationships, error) {
	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Course)
OPTIONAL MATCH (c)-[:REQUIRES*1..]->(p:Course)
OPTIONAL MATCH (d:Course)-[:REQUIRES*1..]->(c)
WITH c.course_code AS code,
     collect(DISTINCT p.course_code) AS prereqs,
     collect(DISTINCT d.course_code) AS dependents
RETURN code, prereqs, dependents
`, nil)
		if err != nil {
			return nil, err
		}
		out := map[string]*domain.CourseRelationships{}
		for res.Next(ctx) {
			rec := res.Record()
			codeV, _ := rec.Get("code")
			code, ok := codeV.(string)
			if !ok || code == "" {
				continue
			}
			prereqs, _ := rec.Get("prereqs")
			dependents, _ := rec.Get("dependents")
			out[code] = &domain.CourseRelationships{
				CourseCode:        code,
				PrerequisiteCodes: codesFromValue(prereqs),
				DependentCodes:    codesFromValue(dependents),
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load relationships: %w", err)
	}
	return result.(map[string]*domain.CourseRelationships), nil
}
