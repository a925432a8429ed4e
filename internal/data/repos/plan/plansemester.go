package plan

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

type PlanSemesterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, semester *domain.PlanSemester) (*domain.PlanSemester, error)
	GetByID(ctx context.Context, tx *gorm.DB, semesterID uuid.UUID) (*domain.PlanSemester, error)
	// GetByPlanID returns semesters ordered by nth_semester with their
	// planned courses preloaded.
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*domain.PlanSemester, error)
	Exists(ctx context.Context, tx *gorm.DB, planID uuid.UUID, year int, term domain.Term) (bool, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, semesterIDs []uuid.UUID) error
	// ShiftOrdinalsAfter closes the gap left by a deleted semester so
	// nth_semester stays contiguous from 1.
	ShiftOrdinalsAfter(ctx context.Context, tx *gorm.DB, planID uuid.UUID, after int) error
}

type planSemesterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanSemesterRepo(db *gorm.DB, baseLog *logger.Logger) PlanSemesterRepo {
	return &planSemesterRepo{db: db, log: baseLog.With("repo", "PlanSemesterRepo")}
}

func (r *planSemesterRepo) Create(ctx context.Context, tx *gorm.DB, semester *domain.PlanSemester) (*domain.PlanSemester, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(semester).Error; err != nil {
		return nil, err
	}
	return semester, nil
}

func (r *planSemesterRepo) GetByID(ctx context.Context, tx *gorm.DB, semesterID uuid.UUID) (*domain.PlanSemester, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.PlanSemester
	err := transaction.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_code ASC")
		}).
		Where("id = ?", semesterID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *planSemesterRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*domain.PlanSemester, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.PlanSemester
	if err := transaction.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_code ASC")
		}).
		Where("degree_plan_id = ?", planID).
		Order("nth_semester ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planSemesterRepo) Exists(ctx context.Context, tx *gorm.DB, planID uuid.UUID, year int, term domain.Term) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.PlanSemester{}).
		Where("degree_plan_id = ? AND year = ? AND term = ?", planID, year, term).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *planSemesterRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, semesterIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(semesterIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", semesterIDs).
		Delete(&domain.PlanSemester{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *planSemesterRepo) ShiftOrdinalsAfter(ctx context.Context, tx *gorm.DB, planID uuid.UUID, after int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.PlanSemester{}).
		Where("degree_plan_id = ? AND nth_semester > ?", planID, after).
		UpdateColumn("nth_semester", gorm.Expr("nth_semester - 1")).Error; err != nil {
		return err
	}
	return nil
}
