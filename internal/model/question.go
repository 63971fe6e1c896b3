package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// OptionMap 以JSON列存储的选项集合，键固定为 "1"/"2"/"3"
type OptionMap map[string]string

func (o OptionMap) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *OptionMap) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return errors.New("unsupported type for OptionMap")
	}
}

// swagger:model Question
type Question struct {
	BaseModel
	Text          string    `gorm:"type:text;not null" json:"text"`
	Options       OptionMap `gorm:"type:json;not null" json:"options"`
	CorrectAnswer int       `gorm:"not null" json:"-"` // 1、2 或 3，不随题目下发给玩家
	LessonID      uint      `gorm:"not null;index" json:"lessonId"`
	Lesson        Lesson    `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"lesson,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
