package repository

import (
	"quizleader_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// ApplyAttemptResult 在给定事务内累加完成局数并抬高历史最高分。
// 只允许在 SubmitQuiz 的事务中调用，幂等性由调用方的 completed 检查保证。
func (r *UserRepository) ApplyAttemptResult(tx *gorm.DB, userID uint, score uint) error {
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_played":  gorm.Expr("total_played + 1"),
			"highest_score": gorm.Expr("CASE WHEN highest_score < ? THEN ? ELSE highest_score END", score, score),
		}).Error
}
