package realtime

import "mindmaze-api/internal/models"

// 服务端发出的消息类型
const (
	TypeStatsUpdate   = "stats_update"
	TypeWaitingUpdate = "waiting_update"
	TypeMatchFailed   = "match_failed"
	TypeError         = "error"
)

// 客户端发来的消息类型
const (
	TypeFindMatch    = "find_match"
	TypeCancelSearch = "cancel_search"
)

// InboundMessage 客户端消息
type InboundMessage struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

// StatsUpdate 平台统计推送
type StatsUpdate struct {
	Type  string       `json:"type"`
	Stats models.Stats `json:"stats"`
}

// WaitingUpdate 大厅人数变化，发送给该大厅的所有成员
type WaitingUpdate struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// Notice match_failed 与 error 消息
type Notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newStatsUpdate(stats models.Stats) StatsUpdate {
	return StatsUpdate{Type: TypeStatsUpdate, Stats: stats}
}

func newMatchFailed(message string) Notice {
	return Notice{Type: TypeMatchFailed, Message: message}
}

func newError(message string) Notice {
	return Notice{Type: TypeError, Message: message}
}
