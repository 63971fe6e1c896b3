package repository

import (
	"quizleader_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Lesson.Subject").First(&question, id).Error
	return &question, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *QuestionRepository) CountByLesson(lessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) ListByLesson(lessonID uint, page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64
	if err := r.DB.Model(&model.Question{}).Where("lesson_id = ?", lessonID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	return questions, total, err
}

// IDsByLesson 只取题目ID，抽样阶段不物化题干
func (r *QuestionRepository) IDsByLesson(lessonID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Question{}).
		Where("lesson_id = ?", lessonID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// AnswerKey 正确答案映射，评分时只查 (id, correct_answer) 两列
type AnswerKey struct {
	ID            uint
	CorrectAnswer int
}

func (r *QuestionRepository) AnswerKeysByIDs(tx *gorm.DB, ids []uint) ([]AnswerKey, error) {
	var keys []AnswerKey
	if len(ids) == 0 {
		return keys, nil
	}
	err := tx.Model(&model.Question{}).
		Select("id", "correct_answer").
		Where("id IN ?", ids).
		Find(&keys).Error
	return keys, err
}

// CountExisting 统计提交的题目ID中确实存在的数量（全库范围，不限定课程）
func (r *QuestionRepository) CountExisting(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := tx.Model(&model.Question{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
