package repository

import (
	"quizleader_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Subject").First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindBySubjectAndTitle(subjectID uint, title string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("subject_id = ? AND title = ?", subjectID, title).First(&lesson).Error
	return &lesson, err
}

func (r *LessonRepository) ListBySubject(subjectID uint, page, limit int) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64
	q := r.DB.Model(&model.Lesson{}).Where("subject_id = ?", subjectID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Preload("Subject").
		Where("subject_id = ?", subjectID).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&lessons).Error
	return lessons, total, err
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}
