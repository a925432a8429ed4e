package graph

import (
	"math"
	"sort"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
)

// Record mapping for Course nodes. All integer-typed graph values pass
// through NormalizeInt before leaving this package.

func courseFromNode(n neo4j.Node) *domain.Course {
	props := n.Props
	c := &domain.Course{
		ID:              asString(props["id"]),
		CourseCode:      asString(props["course_code"]),
		CourseTitle:     asString(props["course_title"]),
		Description:     asString(props["description"]),
		SCHCredits:      asInt(props["sch_credits"]),
		NCredits:        asInt(props["n_credits"]),
		IsElective:      asBool(props["isElective"]),
		IsMinorElective: asBool(props["isMinorElective"]),
		IsSpecElective:  asBool(props["isSpecElective"]),
		Categories:      asStringSlice(props["categories"]),
		Disciplines:     asStringSlice(props["disciplines"]),
		Labels:          append([]string(nil), n.Labels...),
	}
	if len(c.Labels) == 0 {
		c.Labels = []string{"Course"}
	}
	return c
}

func courseProps(c *domain.Course) map[string]any {
	return map[string]any{
		"id":              c.ID,
		"course_code":     c.CourseCode,
		"course_title":    c.CourseTitle,
		"description":     c.Description,
		"sch_credits":     int64(c.SCHCredits),
		"n_credits":       int64(c.NCredits),
		"isElective":      c.IsElective,
		"isMinorElective": c.IsMinorElective,
		"isSpecElective":  c.IsSpecElective,
		"categories":      c.Categories,
		"disciplines":     c.Disciplines,
	}
}

// NormalizeInt converts a graph integer to a native int, or to its
// decimal string when the value falls outside the safe range clients
// can represent. Pure numeric marshalling, nothing domain-specific.
func NormalizeInt(v int64) any {
	const maxSafe = int64(1) << 53
	if v > maxSafe || v < -maxSafe {
		return strconv.FormatInt(v, 10)
	}
	return int(v)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch t := v.(type) {
	case int64:
		// NormalizeInt yields a string outside the safe range; such a
		// value has no faithful int form, so it reads as zero here.
		if n, ok := NormalizeInt(t).(int); ok {
			return n
		}
		return 0
	case int:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int(t)
	case string:
		i, _ := strconv.Atoi(t)
		return i
	default:
		return 0
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// codesFromValue filters the nulls Cypher's collect() leaves behind on
// empty OPTIONAL MATCH branches and returns a sorted, de-duplicated set.
func codesFromValue(v any) []string {
	raw, _ := v.([]any)
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok || s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
