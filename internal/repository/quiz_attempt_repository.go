package repository

import (
	"quizleader_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

// FindForUpdate 在事务内按 (id, user_id) 取行并加排它锁。
// 别人的 attempt 和不存在的 attempt 同样返回 ErrRecordNotFound，
// 避免向请求方泄露他人 attempt 的存在性。
// sqlite 方言没有 FOR UPDATE，单写事务本身即串行，跳过锁子句。
func (r *QuizAttemptRepository) FindForUpdate(tx *gorm.DB, attemptID, userID uint) (*model.QuizAttempt, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var attempt model.QuizAttempt
	err := q.Where("id = ? AND user_id = ?", attemptID, userID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *QuizAttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Preload("Lesson.Subject").First(&attempt, id).Error
	return &attempt, err
}

func (r *QuizAttemptRepository) ListByUser(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	var attempts []model.QuizAttempt
	var total int64
	q := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Preload("Lesson.Subject").
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

// LeaderboardRow 按用户聚合后的排行榜行
type LeaderboardRow struct {
	Username    string  `json:"username"`
	HighScore   uint    `json:"high_score"`
	AvgScore    float64 `json:"avg_score"`
	TotalPlayed int64   `json:"total_played"`
}

// AggregateByUser 聚合已完成的 attempt：每用户的最高分/平均分/完成局数，
// 最高分降序、用户名升序（平分时的确定性次序），截断为窗口大小。
// subjectID 为 0 时统计全部课程（全局榜）。
func (r *QuizAttemptRepository) AggregateByUser(subjectID uint, limit int) ([]LeaderboardRow, error) {
	q := r.DB.Model(&model.QuizAttempt{}).
		Select("users.username AS username, "+
			"MAX(quiz_attempts.score) AS high_score, "+
			"AVG(quiz_attempts.score) AS avg_score, "+
			"COUNT(quiz_attempts.id) AS total_played").
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Where("quiz_attempts.completed = ?", true)

	if subjectID != 0 {
		q = q.Joins("JOIN lessons ON lessons.id = quiz_attempts.lesson_id").
			Where("lessons.subject_id = ?", subjectID)
	}

	var rows []LeaderboardRow
	err := q.Group("users.username").
		Order("high_score DESC, username ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
