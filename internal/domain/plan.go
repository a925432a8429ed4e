package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"column:password;not null" json:"-"`
	FirstName string         `gorm:"column:first_name" json:"first_name"`
	LastName  string         `gorm:"column:last_name" json:"last_name"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// DegreePlan is the student's working plan, one per user. It is created
// lazily on first access.
type DegreePlan struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Program   string          `gorm:"column:program" json:"program,omitempty"`
	Metadata  datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	Semesters []*PlanSemester `gorm:"foreignKey:DegreePlanID;references:ID" json:"semesters,omitempty"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (DegreePlan) TableName() string { return "degree_plan" }

// PlanSemester holds one planning period. NthSemester is the 1-based
// ordinal within the plan; (plan, year, term) is unique.
type PlanSemester struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DegreePlanID uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_plan_year_term" json:"degree_plan_id"`
	Year         int              `gorm:"column:year;not null;uniqueIndex:idx_plan_year_term" json:"year"`
	Term         Term             `gorm:"column:term;not null;uniqueIndex:idx_plan_year_term" json:"term"`
	NthSemester  int              `gorm:"column:nth_semester;not null" json:"nth_semester"`
	Courses      []*PlannedCourse `gorm:"foreignKey:PlanSemesterID;references:ID" json:"courses,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlanSemester) TableName() string { return "plan_semester" }

// PlannedCourse references a catalog course by code only; the title,
// credits and category fields are a snapshot taken at planning time and
// are deliberately not reconciled with later catalog edits.
type PlannedCourse struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanSemesterID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_semester_code" json:"plan_semester_id"`
	CourseCode     string    `gorm:"column:course_code;not null;uniqueIndex:idx_semester_code" json:"course_code"`
	CourseTitle    string    `gorm:"column:course_title" json:"course_title,omitempty"`
	Credits        int       `gorm:"column:credits;not null;default:0" json:"credits"`
	Category       string    `gorm:"column:category" json:"category,omitempty"`
	Status         string    `gorm:"column:status;not null;default:'planned'" json:"status"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlannedCourse) TableName() string { return "planned_course" }
