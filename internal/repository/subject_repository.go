package repository

import (
	"quizleader_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, id).Error
	return &subject, err
}

func (r *SubjectRepository) FindByName(name string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("name = ?", name).First(&subject).Error
	return &subject, err
}

func (r *SubjectRepository) List(page, limit int) ([]model.Subject, int64, error) {
	var subjects []model.Subject
	var total int64
	if err := r.DB.Model(&model.Subject{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subjects).Error
	return subjects, total, err
}

func (r *SubjectRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Subject{}, id).Error
}
