package graph

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/apierr"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/platform/neo4jdb"
)

// CourseStore is CRUD over catalog nodes. Every method opens its own
// session and releases it on all exit paths.
type CourseStore interface {
	List(ctx context.Context, skip, limit int, filter domain.CourseFilter) ([]*domain.Course, int, error)
	GetByID(ctx context.Context, id string) (*domain.CourseWithLinks, error)
	GetByCode(ctx context.Context, code string) (*domain.CourseWithLinks, error)
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	Update(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, id string) (bool, error)
	Catalog(ctx context.Context, search string) ([]*domain.CourseWithLinks, error)
}

type courseStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewCourseStore(client *neo4jdb.Client, baseLog *logger.Logger) CourseStore {
	return &courseStore{client: client, log: baseLog.With("store", "CourseStore")}
}

const listFilterClause = `
WHERE ($search = '' OR toLower(c.course_code) CONTAINS toLower($search)
       OR toLower(c.course_title) CONTAINS toLower($search)
       OR toLower(c.description) CONTAINS toLower($search))
  AND ($discipline = '' OR $discipline IN c.disciplines)
  AND ($label = '' OR $label IN labels(c))
  AND (NOT $filter_elective OR c.isElective = $is_elective)
`

func (s *courseStore) List(ctx context.Context, skip, limit int, filter domain.CourseFilter) ([]*domain.Course, int, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 50
	}
	params := map[string]any{
		"search":          filter.Search,
		"discipline":      filter.Discipline,
		"label":           filter.Label,
		"filter_elective": filter.IsElective != nil,
		"is_elective":     filter.IsElective != nil && *filter.IsElective,
		"skip":            int64(skip),
		"limit":           int64(limit),
	}

	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	type page struct {
		courses []*domain.Course
		total   int
	}
	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (c:Course) `+listFilterClause+` RETURN count(c) AS total`, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		total, _ := rec.Get("total")

		res, err = tx.Run(ctx, `
MATCH (c:Course) `+listFilterClause+`
RETURN c
ORDER BY c.course_code
SKIP $skip LIMIT $limit
`, params)
		if err != nil {
			return nil, err
		}
		var courses []*domain.Course
		for res.Next(ctx) {
			if v, ok := res.Record().Get("c"); ok {
				if node, ok := v.(neo4j.Node); ok {
					courses = append(courses, courseFromNode(node))
				}
			}
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		t, _ := total.(int64)
		return page{courses: courses, total: int(t)}, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	p := result.(page)
	return p.courses, p.total, nil
}

func (s *courseStore) GetByID(ctx context.Context, id string) (*domain.CourseWithLinks, error) {
	return s.getOne(ctx, "id", id)
}

func (s *courseStore) GetByCode(ctx context.Context, code string) (*domain.CourseWithLinks, error) {
	return s.getOne(ctx, "course_code", code)
}

func (s *courseStore) getOne(ctx context.Context, key, value string) (*domain.CourseWithLinks, error) {
	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, fmt.Sprintf(`
MATCH (c:Course {%s: $value})
OPTIONAL MATCH (c)-[:REQUIRES]->(p:Course)
OPTIONAL MATCH (d:Course)-[:REQUIRES]->(c)
RETURN c,
       collect(DISTINCT p.course_code) AS prereqs,
       collect(DISTINCT d.course_code) AS dependents
`, key), map[string]any{"value": value})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		rec := res.Record()
		v, _ := rec.Get("c")
		node, ok := v.(neo4j.Node)
		if !ok {
			return nil, nil
		}
		prereqs, _ := rec.Get("prereqs")
		dependents, _ := rec.Get("dependents")
		return &domain.CourseWithLinks{
			Course:            *courseFromNode(node),
			PrerequisiteCodes: codesFromValue(prereqs),
			DependentCodes:    codesFromValue(dependents),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get course by %s: %w", key, err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*domain.CourseWithLinks), nil
}

var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// labelFragment builds the node label clause for create. Labels never
// come from request input unvalidated, but the allow-list here keeps
// this layer safe on its own.
func labelFragment(labels []string) string {
	seen := map[string]struct{}{"Course": {}}
	frag := ":Course"
	for _, l := range labels {
		if l == "Course" || !labelPattern.MatchString(l) {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		frag += ":" + l
	}
	return frag
}

func (s *courseStore) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (c:Course {course_code: $code}) RETURN count(c) AS n`,
			map[string]any{"code": course.CourseCode})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		if n, _ := rec.Get("n"); n.(int64) > 0 {
			return nil, apierr.Duplicate("course_code_exists",
				"a course with code %q already exists", course.CourseCode)
		}

		res, err = tx.Run(ctx,
			fmt.Sprintf(`CREATE (c%s) SET c = $props RETURN c`, labelFragment(course.Labels)),
			map[string]any{"props": courseProps(course)})
		if err != nil {
			return nil, err
		}
		rec, err = res.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := rec.Get("c")
		return courseFromNode(v.(neo4j.Node)), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Course), nil
}

// patch field → node property, allow-listed so arbitrary keys can never
// reach the SET clause.
func patchAssignments(patch domain.CoursePatch) (map[string]any, []string) {
	set := map[string]any{}
	var clauses []string
	add := func(prop string, val any) {
		set[prop] = val
		clauses = append(clauses, fmt.Sprintf("c.`%s` = $%s", prop, prop))
	}
	if patch.CourseTitle != nil {
		add("course_title", *patch.CourseTitle)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.SCHCredits != nil {
		add("sch_credits", int64(*patch.SCHCredits))
	}
	if patch.NCredits != nil {
		add("n_credits", int64(*patch.NCredits))
	}
	if patch.IsElective != nil {
		add("isElective", *patch.IsElective)
	}
	if patch.IsMinorElective != nil {
		add("isMinorElective", *patch.IsMinorElective)
	}
	if patch.IsSpecElective != nil {
		add("isSpecElective", *patch.IsSpecElective)
	}
	if patch.Categories != nil {
		add("categories", patch.Categories)
	}
	if patch.Disciplines != nil {
		add("disciplines", patch.Disciplines)
	}
	return set, clauses
}

func (s *courseStore) Update(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error) {
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	params, clauses := patchAssignments(patch)
	params["id"] = id

	query := `MATCH (c:Course {id: $id}) RETURN c`
	if len(clauses) > 0 {
		query = fmt.Sprintf(`MATCH (c:Course {id: $id}) SET %s RETURN c`, strings.Join(clauses, ", "))
	}

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		v, _ := res.Record().Get("c")
		return courseFromNode(v.(neo4j.Node)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*domain.Course), nil
}

func (s *courseStore) Delete(ctx context.Context, id string) (bool, error) {
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (c:Course {id: $id}) DETACH DELETE c`,
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted() > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	return result.(bool), nil
}

func (s *courseStore) Catalog(ctx context.Context, search string) ([]*domain.CourseWithLinks, error) {
	session := s.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Course)
WHERE $search = '' OR toLower(c.course_code) CONTAINS toLower($search)
   OR toLower(c.course_title) CONTAINS toLower($search)
OPTIONAL MATCH (c)-[:REQUIRES]->(p:Course)
OPTIONAL MATCH (d:Course)-[:REQUIRES]->(c)
WITH c,
     collect(DISTINCT p.course_code) AS prereqs,
     collect(DISTINCT d.course_code) AS dependents
ORDER BY c.course_code
RETURN c, prereqs, dependents
`, map[string]any{"search": search})
		if err != nil {
			return nil, err
		}
		var out []*domain.CourseWithLinks
		for res.Next(ctx) {
			rec := res.Record()
			v, _ := rec.Get("c")
			node, ok := v.(neo4j.Node)
			if !ok {
				continue
			}
			prereqs, _ := rec.Get("prereqs")
			dependents, _ := rec.Get("dependents")
			out = append(out, &domain.CourseWithLinks{
				Course:            *courseFromNode(node),
				PrerequisiteCodes: codesFromValue(prereqs),
				DependentCodes:    codesFromValue(dependents),
			})
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return result.([]*domain.CourseWithLinks), nil
}
