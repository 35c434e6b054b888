package model

import "time"

// Post 帖子模型：一条帖子固定归属一个用户、引用一个已上传的图片文件。
// Image holds the generated filename under the upload directory; it is set
// at creation time and never changed by updates.
type Post struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"not null;size:100" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Category  string    `gorm:"size:50" json:"category"`
	Image     string    `gorm:"not null;size:255" json:"image"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *Author   `gorm:"foreignKey:UserID" json:"author,omitempty"` // 关联作者（仅用户名）
}

// Author is the partial view of a User embedded in post responses. It maps
// onto the users table but only ever exposes the username.
type Author struct {
	ID       uint64 `json:"-"`
	Username string `json:"username"`
}

func (Author) TableName() string {
	return "users"
}
