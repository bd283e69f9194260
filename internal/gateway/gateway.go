// Package gateway 是 WebSocket 前门: 上行帧翻译成房间服务调用,
// 房间订阅翻译成下行推送. 连接身份就是座位号, 客户端带 seat 参数
// 重连可以找回座位, 不带就分配一个新的.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"parlor-lite/internal/codec"
	"parlor-lite/internal/docstore"
	"parlor-lite/internal/room"
	"parlor-lite/internal/roster"
	"parlor-lite/reject"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 65536
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: 接上配置后收紧 origin 白名单
	},
}

// Gateway 管理全部客户端连接.
type Gateway struct {
	rooms *room.Service
	names roster.Service
	log   *slog.Logger

	mu    sync.RWMutex
	conns map[string]*Connection
}

// New 创建网关. log 为 nil 时用默认 logger.
func New(rooms *room.Service, names roster.Service, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		rooms: rooms,
		names: names,
		log:   log,
		conns: make(map[string]*Connection),
	}
}

// Connection 一条客户端连接及其对局订阅.
type Connection struct {
	seat string
	conn *websocket.Conn
	send chan []byte
	gw   *Gateway

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	watches map[string]docstore.CancelFunc
}

// HandleWebSocket 升级连接, 下发 hello 帧, 启动读写泵.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	seat := r.URL.Query().Get("seat")
	if seat == "" {
		seat = uuid.NewString()
	}
	if name := r.URL.Query().Get("name"); name != "" {
		g.names.Register(roster.Profile{Seat: seat, Name: name})
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		seat:    seat,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		gw:      g,
		ctx:     ctx,
		cancel:  cancel,
		watches: make(map[string]docstore.CancelFunc),
	}

	g.mu.Lock()
	g.conns[seat] = c
	total := len(g.conns)
	g.mu.Unlock()
	g.log.Info("client connected", "seat", seat, "total", total)

	profile := g.names.Lookup(seat)
	c.push(codec.ServerEnvelope{Hello: &codec.HelloPayload{
		Seat:   seat,
		Name:   profile.Name,
		Avatar: profile.Avatar,
	}})

	go c.readPump()
	go c.writePump()
}

// Close 断开所有连接, 进程退出前调用.
// http.Server.Shutdown 不管被劫持的连接, 这里补上.
func (g *Gateway) Close() {
	g.mu.Lock()
	conns := make([]*Connection, 0, len(g.conns))
	for _, c := range g.conns {
		conns = append(conns, c)
	}
	g.mu.Unlock()

	for _, c := range conns {
		c.teardown()
	}
}

func (g *Gateway) remove(c *Connection) {
	g.mu.Lock()
	if cur, ok := g.conns[c.seat]; ok && cur == c {
		delete(g.conns, c.seat)
	}
	total := len(g.conns)
	g.mu.Unlock()
	g.log.Info("client disconnected", "seat", c.seat, "total", total)
}

func (c *Connection) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gw.log.Warn("read error", "seat", c.seat, "err", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.handleFrame(message)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// teardown 取消全部订阅并摘除连接, 可安全重复调用.
func (c *Connection) teardown() {
	c.cancel()
	c.mu.Lock()
	for id, cancel := range c.watches {
		cancel()
		delete(c.watches, id)
	}
	c.mu.Unlock()
	_ = c.conn.Close()
	c.gw.remove(c)
}

// push 序列化后非阻塞入队. 发缓冲打满说明客户端停读, 丢帧保全局.
func (c *Connection) push(env codec.ServerEnvelope) {
	env.ServerTs = time.Now().UnixMilli()
	data, err := json.Marshal(env)
	if err != nil {
		c.gw.log.Error("marshal frame", "seat", c.seat, "err", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.gw.log.Debug("send buffer full, dropping frame", "seat", c.seat)
	}
}

func (c *Connection) fail(seq uint64, gameID string, err error) {
	c.push(codec.ServerEnvelope{Seq: seq, GameID: gameID, Error: codec.ErrorFrom(err)})
}

// handleFrame 按 payload 字段分发. 成功的 join/leave/act 不单独应答,
// 结果通过订阅推送到场; 只有 create 需要把新对局号带回去.
func (c *Connection) handleFrame(data []byte) {
	var env codec.ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.fail(0, "", reject.ErrBadRequest.With("malformed frame"))
		return
	}

	switch {
	case env.Create != nil:
		c.handleCreate(env.Seq, env.Create)
	case env.Join != nil:
		c.handleJoin(env.Seq, env.Join)
	case env.Leave != nil:
		c.handleLeave(env.Seq, env.Leave)
	case env.Act != nil:
		c.handleAct(env.Seq, env.Act)
	case env.Watch != nil:
		c.handleWatch(env.Seq, env.Watch)
	default:
		c.fail(env.Seq, "", reject.ErrBadRequest.With("no payload"))
	}
}

func (c *Connection) handleCreate(seq uint64, req *codec.CreateRequest) {
	kind, err := codec.ParseKind(req.Kind)
	if err != nil {
		c.fail(seq, "", err)
		return
	}
	id, err := c.gw.rooms.CreateGame(c.ctx, kind)
	if err != nil {
		c.fail(seq, "", err)
		return
	}
	c.push(codec.ServerEnvelope{Seq: seq, GameID: id, Created: &codec.CreatedPayload{GameID: id, Kind: kind}})
}

func (c *Connection) handleJoin(seq uint64, req *codec.JoinRequest) {
	if err := c.gw.rooms.JoinGame(c.ctx, req.GameID, c.seat, req.BuyIn); err != nil {
		c.fail(seq, req.GameID, err)
		return
	}
	// 入座即订阅, 首帧就是入座后的桌面
	if err := c.startWatch(req.GameID); err != nil {
		c.fail(seq, req.GameID, err)
	}
}

func (c *Connection) handleLeave(seq uint64, req *codec.LeaveRequest) {
	if err := c.gw.rooms.LeaveGame(c.ctx, req.GameID, c.seat); err != nil {
		c.fail(seq, req.GameID, err)
	}
}

func (c *Connection) handleAct(seq uint64, req *codec.ActionRequest) {
	if err := c.gw.rooms.SubmitAction(c.ctx, req.GameID, c.seat, *req); err != nil {
		c.fail(seq, req.GameID, err)
	}
}

func (c *Connection) handleWatch(seq uint64, req *codec.WatchRequest) {
	if err := c.startWatch(req.GameID); err != nil {
		c.fail(seq, req.GameID, err)
	}
}

// startWatch 订阅对局并把快照转成下行帧. 重复订阅幂等.
func (c *Connection) startWatch(gameID string) error {
	c.mu.Lock()
	_, exists := c.watches[gameID]
	c.mu.Unlock()
	if exists {
		return nil
	}

	snaps, cancel, err := c.gw.rooms.Watch(c.ctx, gameID, c.seat)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.watches[gameID] = cancel
	c.mu.Unlock()

	go func() {
		for snap := range snaps {
			update := snap
			c.push(codec.ServerEnvelope{GameID: gameID, Update: &update})
		}
		c.mu.Lock()
		delete(c.watches, gameID)
		c.mu.Unlock()
	}()
	return nil
}
