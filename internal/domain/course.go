package domain

// Course is a catalog node in the dependency graph. It lives in Neo4j,
// not Postgres; planned courses reference it by code only.
type Course struct {
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

// CourseWithLinks carries a course plus its direct (one hop) neighbors.
type CourseWithLinks struct {
	Course
	PrerequisiteCodes []string `json:"prerequisite_codes"`
	DependentCodes    []string `json:"dependent_codes"`
}

// CourseRelationships is the transitive view used by the client-side
// dependency visualization.
type CourseRelationships struct {
	CourseCode        string   `json:"course_code"`
	PrerequisiteCodes []string `json:"prerequisite_codes"`
	DependentCodes    []string `json:"dependent_codes"`
}

// Requires describes a REQUIRES edge: StartID is the course, EndID the
// prerequisite it points at.
type Requires struct {
	Type    string `json:"type"`
	StartID string `json:"startNode"`
	EndID   string `json:"endNode"`
}

// CourseFilter predicates are AND-composed; zero values mean "no filter".
type CourseFilter struct {
	Search     string
	Discipline string
	Label      string
	IsElective *bool
}

// CoursePatch is the allow-listed partial update for a course node.
// Nil fields are left untouched.
type CoursePatch struct {
	CourseTitle     *string
	Description     *string
	SCHCredits      *int
	NCredits        *int
	IsElective      *bool
	IsMinorElective *bool
	IsSpecElective  *bool
	Categories      []string
	Disciplines     []string
}

func (p CoursePatch) IsEmpty() bool {
	return p.CourseTitle == nil &&
		p.Description == nil &&
		p.SCHCredits == nil &&
		p.NCredits == nil &&
		p.IsElective == nil &&
		p.IsMinorElective == nil &&
		p.IsSpecElective == nil &&
		p.Categories == nil &&
		p.Disciplines == nil
}
