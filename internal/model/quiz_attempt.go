package model

// QuizAttempt 一次测验：开始时创建，提交时一次性写入得分并封存
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID    uint   `gorm:"not null;index:idx_attempt_user_lesson" json:"userId"`
	LessonID  uint   `gorm:"not null;index:idx_attempt_user_lesson" json:"lessonId"`
	Score     uint   `gorm:"default:0;index" json:"score"`
	Completed bool   `gorm:"default:false" json:"completed"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lesson    Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"lesson,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
