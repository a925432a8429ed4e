package plan

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

type DegreePlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *domain.DegreePlan) (*domain.DegreePlan, error)
	GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*domain.DegreePlan, error)
	// GetByUserID loads the plan with semesters ordered by nth_semester
	// and each semester's planned courses. Returns nil when absent.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.DegreePlan, error)
}

type degreePlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDegreePlanRepo(db *gorm.DB, baseLog *logger.Logger) DegreePlanRepo {
	return &degreePlanRepo{db: db, log: baseLog.With("repo", "DegreePlanRepo")}
}

func (r *degreePlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *domain.DegreePlan) (*domain.DegreePlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *degreePlanRepo) GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*domain.DegreePlan, error) {
	return r.getOne(ctx, tx, "id = ?", planID)
}

func (r *degreePlanRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.DegreePlan, error) {
	return r.getOne(ctx, tx, "user_id = ?", userID)
}

func (r *degreePlanRepo) getOne(ctx context.Context, tx *gorm.DB, cond string, arg any) (*domain.DegreePlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.DegreePlan
	err := transaction.WithContext(ctx).
		Preload("Semesters", func(db *gorm.DB) *gorm.DB {
			return db.Order("nth_semester ASC")
		}).
		Preload("Semesters.Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_code ASC")
		}).
		Where(cond, arg).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
