// Package realtime 维护 WebSocket 在线状态和匹配大厅
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"mindmaze-api/internal/logger"
	"mindmaze-api/internal/models"

	"github.com/gorilla/websocket"
)

// ErrHubStopped hub 已停止，不再接受连接
var ErrHubStopped = errors.New("realtime: hub stopped")

const (
	msgCategoryRequired = "Please choose a category"
	msgLobbyFull        = "Lobby is full, please try again later"
	msgMalformed        = "Malformed message"
	msgUnknownType      = "Unknown message type"

	statsTimeout = 5 * time.Second
)

// StatsSource 提供 stats_update 推送的数据
type StatsSource interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// Observer 实时连接指标
type Observer interface {
	SetConnectedPlayers(count int)
	SetActiveLobbies(count int)
	RecordWebSocketMessage(direction, msgType string)
}

// HubConfig hub 配置
type HubConfig struct {
	MaxLobbyPlayers int
	MaxMessageSize  int64
	CheckOrigin     func(origin string) bool // 为空时只接受没有 Origin 的请求
	SendQueueSize   int                      // 每个连接的发送队列长度
}

type inboundEvent struct {
	client *Client
	msg    InboundMessage
	err    error
}

// Hub 在线玩家与大厅状态
// 所有状态变更都在 Run 的循环中完成；读接口通过 mu 获取快照
type Hub struct {
	cfg      HubConfig
	upgrader websocket.Upgrader
	logger   logger.Logger

	stats    StatsSource
	observer Observer

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent
	broadcast  chan []byte

	// 容量为 1，统计请求在 statsLoop 忙时合并
	statsRequests chan struct{}
	wg            sync.WaitGroup

	mu          sync.RWMutex
	clients     map[string]*Client            // username -> 当前连接
	lobbies     map[string]map[string]*Client // category -> username -> 连接
	playerLobby map[string]string             // username -> category

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a new hub; Run must be started before serving connections
func NewHub(cfg HubConfig, log logger.Logger) *Hub {
	if cfg.MaxLobbyPlayers <= 0 {
		cfg.MaxLobbyPlayers = 8
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = maxMessageSize
	}
	if cfg.SendQueueSize <= 0 {
		cfg.SendQueueSize = sendChannelSize
	}
	if log == nil {
		log = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		cfg:           cfg,
		logger:        log.WithModule("realtime"),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan inboundEvent, 64),
		broadcast:     make(chan []byte, 64),
		statsRequests: make(chan struct{}, 1),
		clients:       make(map[string]*Client),
		lobbies:       make(map[string]map[string]*Client),
		playerLobby:   make(map[string]string),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetStatsSource 设置统计来源，需在 Run 之前调用
func (h *Hub) SetStatsSource(src StatsSource) {
	h.stats = src
}

// SetObserver 设置指标观察者，需在 Run 之前调用
func (h *Hub) SetObserver(o Observer) {
	h.observer = o
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return h.cfg.CheckOrigin != nil && h.cfg.CheckOrigin(origin)
}

// Run 运行事件循环，直到 Stop 被调用
func (h *Hub) Run() {
	defer close(h.done)
	defer h.wg.Wait()

	h.wg.Add(1)
	go h.statsLoop()

	h.logger.Info(h.ctx, "WebSocket hub started")

	for {
		select {
		case <-h.ctx.Done():
			h.mu.Lock()
			for name, c := range h.clients {
				close(c.send)
				c.conn.Close()
				delete(h.clients, name)
			}
			h.lobbies = make(map[string]map[string]*Client)
			h.playerLobby = make(map[string]string)
			h.mu.Unlock()
			h.publishGauges()
			h.logger.Info(context.Background(), "WebSocket hub stopped")
			return

		case c := <-h.register:
			h.addClient(c)

		case c := <-h.unregister:
			if h.removeClient(c) {
				h.broadcastStats()
			}

		case ev := <-h.inbound:
			h.handleInbound(ev)

		case data := <-h.broadcast:
			for _, c := range h.snapshotClients() {
				h.sendTo(c, data)
			}
		}
	}
}

// Stop 停止 hub 并关闭所有连接
func (h *Hub) Stop() {
	h.cancel()
	<-h.done
}

// Done 在 hub 停止后关闭
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ConnectedCount 当前在线玩家数
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ActiveLobbies 至少有一名等待玩家的大厅数
func (h *Hub) ActiveLobbies() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies)
}

// LobbySize 指定大厅的等待人数
func (h *Hub) LobbySize(category string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies[category])
}

// ServeWS 升级连接并注册客户端
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, username string) error {
	select {
	case <-h.ctx.Done():
		http.Error(w, "Service is shutting down", http.StatusServiceUnavailable)
		return ErrHubStopped
	default:
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写出了错误响应
		h.logger.Warn(r.Context(), "WebSocket upgrade failed",
			logger.String("username", username), logger.Error(err))
		return err
	}

	c := newClient(h, conn, username)

	select {
	case h.register <- c:
	case <-h.ctx.Done():
		conn.Close()
		return ErrHubStopped
	}

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	old, replaced := h.clients[c.username]
	var previous string
	if replaced {
		previous = h.leaveLobbyLocked(old)
		close(old.send)
	}
	h.clients[c.username] = c
	h.mu.Unlock()

	if previous != "" {
		h.notifyLobby(previous)
	}

	if replaced {
		h.logger.Info(h.ctx, "WebSocket connection replaced", logger.String("username", c.username))
	} else {
		h.logger.Debug(h.ctx, "WebSocket client registered",
			logger.String("username", c.username),
			logger.Int("total_clients", h.ConnectedCount()))
	}

	h.publishGauges()
	h.broadcastStats()
}

// removeClient 移除仍在使用的连接；替换后的旧连接直接忽略
func (h *Hub) removeClient(c *Client) bool {
	h.mu.Lock()
	current, ok := h.clients[c.username]
	if !ok || current != c {
		h.mu.Unlock()
		return false
	}
	category := h.leaveLobbyLocked(c)
	delete(h.clients, c.username)
	close(c.send)
	h.mu.Unlock()

	h.logger.Debug(h.ctx, "WebSocket client unregistered",
		logger.String("username", c.username),
		logger.Int("total_clients", h.ConnectedCount()))

	if category != "" {
		h.notifyLobby(category)
	}
	h.publishGauges()
	return true
}

// leaveLobbyLocked 将玩家移出所在大厅，返回原大厅；调用方持有 mu
func (h *Hub) leaveLobbyLocked(c *Client) string {
	category, ok := h.playerLobby[c.username]
	if !ok {
		return ""
	}
	delete(h.playerLobby, c.username)
	if members := h.lobbies[category]; members != nil {
		delete(members, c.username)
		if len(members) == 0 {
			delete(h.lobbies, category)
		}
	}
	return category
}

func (h *Hub) handleInbound(ev inboundEvent) {
	// 已被替换或移除的连接发来的消息不再处理
	h.mu.RLock()
	current := h.clients[ev.client.username] == ev.client
	h.mu.RUnlock()
	if !current {
		return
	}

	if ev.err != nil {
		h.send(ev.client, newError(msgMalformed))
		return
	}

	switch ev.msg.Type {
	case TypeFindMatch:
		h.recordMessage("in", TypeFindMatch)
		h.findMatch(ev.client, ev.msg.Category)
	case TypeCancelSearch:
		h.recordMessage("in", TypeCancelSearch)
		h.cancelSearch(ev.client)
	default:
		h.recordMessage("in", "unknown")
		h.send(ev.client, newError(msgUnknownType))
	}
}

func (h *Hub) findMatch(c *Client, category string) {
	if category == "" {
		h.send(c, newMatchFailed(msgCategoryRequired))
		return
	}

	h.mu.Lock()
	if h.playerLobby[c.username] == category {
		h.mu.Unlock()
		h.notifyLobby(category)
		return
	}
	if len(h.lobbies[category]) >= h.cfg.MaxLobbyPlayers {
		h.mu.Unlock()
		h.send(c, newMatchFailed(msgLobbyFull))
		return
	}

	previous := h.leaveLobbyLocked(c)
	members := h.lobbies[category]
	if members == nil {
		members = make(map[string]*Client)
		h.lobbies[category] = members
	}
	members[c.username] = c
	h.playerLobby[c.username] = category
	h.mu.Unlock()

	if previous != "" {
		h.notifyLobby(previous)
	}
	h.notifyLobby(category)
	h.publishGauges()
	h.broadcastStats()
}

func (h *Hub) cancelSearch(c *Client) {
	h.mu.Lock()
	category := h.leaveLobbyLocked(c)
	h.mu.Unlock()

	if category == "" {
		return
	}
	h.notifyLobby(category)
	h.publishGauges()
	h.broadcastStats()
}

// notifyLobby 向大厅成员发送当前人数
func (h *Hub) notifyLobby(category string) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.lobbies[category]))
	for _, c := range h.lobbies[category] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	update := WaitingUpdate{
		Type:        TypeWaitingUpdate,
		Category:    category,
		PlayerCount: len(members),
		MaxPlayers:  h.cfg.MaxLobbyPlayers,
	}
	for _, c := range members {
		h.send(c, update)
	}
}

// broadcastStats 请求一次统计广播；已有待处理的请求时直接合并
func (h *Hub) broadcastStats() {
	select {
	case h.statsRequests <- struct{}{}:
	default:
	}
}

// statsLoop 单独计算统计，避免数据库访问阻塞事件循环
func (h *Hub) statsLoop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.statsRequests:
		}

		data, ok := h.computeStats()
		if !ok {
			continue
		}
		select {
		case h.broadcast <- data:
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) computeStats() ([]byte, bool) {
	stats := models.Stats{
		ConnectedPlayers: h.ConnectedCount(),
		ActiveGames:      h.ActiveLobbies(),
	}
	if h.stats != nil {
		ctx, cancel := context.WithTimeout(h.ctx, statsTimeout)
		s, err := h.stats.Stats(ctx)
		cancel()
		if err != nil {
			if h.ctx.Err() == nil {
				h.logger.Warn(h.ctx, "Failed to compute stats for broadcast", logger.Error(err))
			}
			return nil, false
		}
		stats = s
	}

	data, err := json.Marshal(newStatsUpdate(stats))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (h *Hub) send(c *Client, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(h.ctx, "Failed to marshal WebSocket message", logger.Error(err))
		return
	}
	h.sendTo(c, data)
}

// sendTo 非阻塞写入发送队列；队列已满的慢客户端会被断开
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mu.RLock()
	current := h.clients[c.username] == c
	h.mu.RUnlock()
	if !current {
		return
	}

	select {
	case c.send <- data:
		h.recordMessage("out", messageType(data))
	default:
		h.logger.Warn(h.ctx, "Evicting slow WebSocket client", logger.String("username", c.username))
		if h.removeClient(c) {
			c.conn.Close()
			h.broadcastStats()
		}
	}
}

func (h *Hub) snapshotClients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

func (h *Hub) publishGauges() {
	if h.observer == nil {
		return
	}
	h.observer.SetConnectedPlayers(h.ConnectedCount())
	h.observer.SetActiveLobbies(h.ActiveLobbies())
}

func (h *Hub) recordMessage(direction, msgType string) {
	if h.observer != nil {
		h.observer.RecordWebSocketMessage(direction, msgType)
	}
}

func messageType(data []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "unknown"
	}
	return head.Type
}
