package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User users 集合中的用户文档
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"` // 文档ID
	Username     string             `bson:"username"`      // 用户名（唯一）
	PasswordHash string             `bson:"password_hash"` // bcrypt 哈希
	Score        int                `bson:"score"`         // 累计得分
	GamesPlayed  int                `bson:"games_played"`  // 已完成对局数
	CreatedAt    time.Time          `bson:"created_at"`    // 创建时间
}

// ToPublic 返回可以发给客户端的用户信息
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Score:       u.Score,
		GamesPlayed: u.GamesPlayed,
		CreatedAt:   u.CreatedAt,
	}
}

// PublicUser 不包含密码哈希的用户信息
type PublicUser struct {
	ID          string    `json:"id" example:"652f1c9e8b3e4a0012345678"` // 用户ID
	Username    string    `json:"username" example:"brainiac_42"`        // 用户名
	Score       int       `json:"score" example:"0"`                     // 累计得分
	GamesPlayed int       `json:"games_played" example:"0"`              // 已完成对局数
	CreatedAt   time.Time `json:"created_at"`                            // 创建时间
}

// SignupRequest 注册请求
type SignupRequest struct {
	Username string `json:"username" binding:"required,username" example:"brainiac_42"` // 用户名
	Password string `json:"password" binding:"required,min=6" example:"secret123"`      // 密码
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"brainiac_42"` // 用户名
	Password string `json:"password" binding:"required" example:"secret123"`   // 密码
}

// AuthResponse 注册与登录成功的响应
type AuthResponse struct {
	Message string     `json:"message" example:"Login successful"`
	User    PublicUser `json:"user"`
}
