package model

import (
	"time"
)

type UserRole string

const (
	Player UserRole = "player"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username     string    `gorm:"size:150;unique;not null" json:"Username"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);default:'player'" json:"Role"`
	HighestScore uint      `gorm:"default:0;index" json:"HighestScore"` // 历史最高得分（只增不减）
	TotalPlayed  uint      `gorm:"default:0" json:"TotalPlayed"`        // 已完成的测验次数
	LastLogin    time.Time `json:"LastLogin"`
}

func (User) TableName() string {
	return "users"
}
