package models

import "time"

// User represents application user.
// 三种凭据来源（本地密码 / Google / Facebook）统一落在同一张表：
// 至少要有 Username+PasswordHash、GoogleID、FacebookID 之一。
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     *string `gorm:"size:64;uniqueIndex"` // 仅本地注册用户有用户名
	PasswordHash string  `gorm:"size:255"`            // bcrypt；OAuth 用户为空
	GoogleID     *string `gorm:"size:64;uniqueIndex"`
	FacebookID   *string `gorm:"size:64;uniqueIndex"`
	Secret       *string `gorm:"type:text"` // 用户提交的秘密，未提交时为 NULL
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
