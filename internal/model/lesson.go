package model

// Lesson 科目下的课程，(subject_id, title) 必须唯一
// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title     string  `gorm:"size:200;not null;uniqueIndex:idx_lesson_subject_title" json:"title"`
	SubjectID uint    `gorm:"not null;uniqueIndex:idx_lesson_subject_title;index" json:"subjectId"`
	Subject   Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
