package models

import "time"

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Username string `json:"username" bson:"username" example:"brainiac_42"`
	Score    int    `json:"score" bson:"score" example:"120"`
}

// Stats 平台实时统计
type Stats struct {
	TotalUsers       int64 `json:"total_users" example:"42"`
	ActiveGames      int   `json:"active_games" example:"1"`
	ConnectedPlayers int   `json:"connected_players" example:"3"`
}

// RootResponse 根路径响应
type RootResponse struct {
	Message string `json:"message" example:"Welcome to the MindMaze API!"`
	Status  string `json:"status" example:"online"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string            `json:"status" example:"ready"`
	State    string            `json:"state" example:"ready"`
	Version  string            `json:"version" example:"1.1.0"`
	Services map[string]string `json:"services,omitempty"`
	Database *DatabaseHealth   `json:"database,omitempty"`
}

// DatabaseHealth 数据库最近一次检查结果与命令统计
type DatabaseHealth struct {
	LastHealthCheck time.Time `json:"last_health_check"`
	IsHealthy       bool      `json:"is_healthy"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	TotalCommands   int64     `json:"total_commands"`
	FailedCommands  int64     `json:"failed_commands"`
	SlowCommands    int64     `json:"slow_commands"`
}
