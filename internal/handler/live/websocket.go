package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/calm-corner/backend/internal/handler/httperror"
	"github.com/zhouzirui/calm-corner/backend/internal/observability"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
)

const (
	defaultReadTimeout = 60 * time.Second
	writeTimeout       = 10 * time.Second
)

// 客户端发来的消息类型
const (
	TypeChat    = "chat"
	TypeJournal = "journal"
	TypeMood    = "mood"
)

// 服务端下发的消息类型
const (
	TypeConnected = "connected"
	TypeStatus    = "status"
	TypeResult    = "result"
	TypeError     = "error"
)

// WebSocketHandler 会话的实时通道：聊天、日记与情绪切换共用一条连接。
type WebSocketHandler struct {
	wellness    *wellness.Service
	upgrader    websocket.Upgrader
	readTimeout time.Duration
}

// NewWebSocketHandler 创建WebSocket处理器。allowedOrigins 为空或包含 "*" 时不校验来源。
func NewWebSocketHandler(svc *wellness.Service, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wellness:    svc,
		readTimeout: defaultReadTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/live", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TextMessage 聊天或日记文本
type TextMessage struct {
	Text string `json:"text"`
}

// MoodMessage 切换当前情绪
type MoodMessage struct {
	Mood string `json:"mood"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// connection 串行化写操作，gorilla 只允许一个并发写者
type connection struct {
	conn      *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *connection) send(msg outgoingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.Timestamp = time.Now().Unix()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.wellness.View(r.Context(), sessionID)
	if err != nil {
		httperror.Write(w, r, err)
		return
	}

	log := observability.LoggerFromContext(r.Context()).With("session_id", sessionID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := &connection{conn: conn, sessionID: sessionID}
	log.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	extendDeadline := func() error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
	_ = extendDeadline()
	conn.SetPongHandler(func(string) error { return extendDeadline() })

	go pingLoop(ctx, conn, h.readTimeout*9/10)

	_ = c.send(outgoingMessage{
		Type:      TypeConnected,
		SessionID: sessionID,
		Data: map[string]any{
			"profile": view.Profile.ID,
			"mood":    view.Session.Mood,
		},
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = extendDeadline()

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, "session mismatch", false)
			continue
		}

		h.handleMessage(ctx, c, &msg)
		// 推理可能耗尽整个读超时，处理完后重新计时
		_ = extendDeadline()
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *connection, msg *inboundMessage) {
	switch msg.Type {
	case TypeChat:
		h.handleChat(ctx, c, msg.Data)
	case TypeJournal:
		h.handleJournal(ctx, c, msg.Data)
	case TypeMood:
		h.handleMood(ctx, c, msg.Data)
	default:
		h.sendError(c, "unsupported message type: "+msg.Type, false)
	}
}

func (h *WebSocketHandler) notifier(c *connection) wellness.StatusFunc {
	return func(status wellness.Status) {
		_ = c.send(outgoingMessage{Type: TypeStatus, SessionID: c.sessionID, Data: status})
	}
}

func (h *WebSocketHandler) handleChat(ctx context.Context, c *connection, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(c, "invalid chat payload", false)
		return
	}

	result, err := h.wellness.SubmitChat(ctx, c.sessionID, text.Text, h.notifier(c))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	h.sendResult(c, TypeChat, result)
}

func (h *WebSocketHandler) handleJournal(ctx context.Context, c *connection, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(c, "invalid journal payload", false)
		return
	}

	result, err := h.wellness.SaveJournal(ctx, c.sessionID, text.Text, h.notifier(c))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	h.sendResult(c, TypeJournal, result)
}

func (h *WebSocketHandler) handleMood(ctx context.Context, c *connection, raw json.RawMessage) {
	var m MoodMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		h.sendError(c, "invalid mood payload", false)
		return
	}

	session, err := h.wellness.SetMood(ctx, c.sessionID, m.Mood)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	h.sendResult(c, TypeMood, map[string]string{"mood": session.Mood})
}

func (h *WebSocketHandler) sendResult(c *connection, kind string, payload interface{}) {
	if err := c.send(outgoingMessage{
		Type:      TypeResult,
		SessionID: c.sessionID,
		Data:      map[string]any{"kind": kind, "result": payload},
	}); err != nil {
		observability.Logger().Warn("websocket write failed", "session_id", c.sessionID, "error", err)
	}
}

func (h *WebSocketHandler) sendServiceError(c *connection, err error) {
	_, payload := httperror.Describe(err)
	h.sendError(c, payload.Error, payload.Retryable)
}

func (h *WebSocketHandler) sendError(c *connection, message string, retryable bool) {
	data := map[string]any{"message": message}
	if retryable {
		data["retryable"] = true
	}
	if err := c.send(outgoingMessage{Type: TypeError, SessionID: c.sessionID, Data: data}); err != nil {
		observability.Logger().Warn("websocket write failed", "session_id", c.sessionID, "error", err)
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
