package models

type User struct {
	ID uint `gorm:"column:id;primaryKey"`

	// 基础信息
	Username string `gorm:"column:username;not null;uniqueIndex"` // 用户名，全局唯一
	IsActive bool   `gorm:"column:is_active;not null;default:true"`

	// 登录认证相关
	HashedPassword string `gorm:"column:hashed_password;not null"` // 密码，新密码使用 argon2id 储存，兼容旧的 bcrypt
}

func (User) TableName() string {
	return "users"
}
