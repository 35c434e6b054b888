package model

import "time"

// User 用户模型
type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"not null;size:50" json:"username"`
	Email     string    `gorm:"unique;not null;size:100" json:"email"`
	Password  string    `gorm:"not null;size:100" json:"-"` // 只存 bcrypt 哈希，不序列化
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
