package plan

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

type PlannedCourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*domain.PlannedCourse) ([]*domain.PlannedCourse, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.PlannedCourse, error)
	GetBySemesterIDs(ctx context.Context, tx *gorm.DB, semesterIDs []uuid.UUID) ([]*domain.PlannedCourse, error)
	ExistsInSemester(ctx context.Context, tx *gorm.DB, semesterID uuid.UUID, courseCode string) (bool, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type plannedCourseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlannedCourseRepo(db *gorm.DB, baseLog *logger.Logger) PlannedCourseRepo {
	return &plannedCourseRepo{db: db, log: baseLog.With("repo", "PlannedCourseRepo")}
}

func (r *plannedCourseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*domain.PlannedCourse) ([]*domain.PlannedCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return []*domain.PlannedCourse{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *plannedCourseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.PlannedCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.PlannedCourse
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *plannedCourseRepo) GetBySemesterIDs(ctx context.Context, tx *gorm.DB, semesterIDs []uuid.UUID) ([]*domain.PlannedCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.PlannedCourse
	if len(semesterIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("plan_semester_id IN ?", semesterIDs).
		Order("course_code ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *plannedCourseRepo) ExistsInSemester(ctx context.Context, tx *gorm.DB, semesterID uuid.UUID, courseCode string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.PlannedCourse{}).
		Where("plan_semester_id = ? AND course_code = ?", semesterID, courseCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *plannedCourseRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.PlannedCourse{}).Error; err != nil {
		return err
	}
	return nil
}
