// Живая доставка индекса плейсхолдеров по вебсокету.
// Каждое подключение подписывается на обновления индекса своей сессии
// и получает свежий список записей после каждого пересканирования.
//
// Основные возможности:
//   - Поддержка нескольких подключений к одной сессии редактора.
//   - Отправка индекса через вебсокет в формате JSON.
//   - Пинг для поддержания активных соединений и закрытие неактивных.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/placeholder"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/session"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gofrs/uuid"
)

const (
	pingPeriod = time.Second * 20
	timeout    = time.Minute
)

type IndexMsg struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Records   placeholder.Index `json:"records"`
	CreatedAt time.Time         `json:"created_at"`
}

type LiveIndexService struct {
	sessions map[uuid.UUID]map[uuid.UUID]*websocket.Conn
	mutex    sync.RWMutex
}

func NewLiveIndexService() *LiveIndexService {
	return &LiveIndexService{
		sessions: make(map[uuid.UUID]map[uuid.UUID]*websocket.Conn),
	}
}

// Handle обслуживает вебсокет-подключение к сессии редактора. Сразу после
// подключения клиент получает текущий индекс, затем обновления по мере
// пересканирования. Блокирует до закрытия соединения клиентом.
func (ls *LiveIndexService) Handle(sess *session.Session, w http.ResponseWriter, req *http.Request) {
	c, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Open websocket connection", "err", err)
		return
	}
	defer c.CloseNow()

	conID := uuid.Must(uuid.NewV4())

	ls.mutex.Lock()
	cons, ok := ls.sessions[sess.ID]
	if !ok {
		cons = make(map[uuid.UUID]*websocket.Conn)
	}
	cons[conID] = c
	ls.sessions[sess.ID] = cons
	ls.mutex.Unlock()

	updates, cancel := sess.Subscribe()
	defer cancel()

	go ls.pingLoop(sess.ID, conID, c)

	ctx := c.CloseRead(context.Background())

	// Текущий индекс уходит первым сообщением
	ls.send(ctx, c, sess.ID, sess.Placeholders())

	for {
		select {
		case index, ok := <-updates:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "session closed")
				ls.drop(sess.ID, conID)
				return
			}
			ls.send(ctx, c, sess.ID, index)
		case <-ctx.Done():
			ls.drop(sess.ID, conID)
			c.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}

func (ls *LiveIndexService) send(ctx context.Context, c *websocket.Conn, sessionID uuid.UUID, index placeholder.Index) {
	msg := IndexMsg{
		Type:      "placeholders",
		SessionID: sessionID.String(),
		Records:   index,
		CreatedAt: time.Now().UTC(),
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := wsjson.Write(wctx, c, msg); err != nil {
		slog.Error("Write index to websocket", "sessionId", sessionID, "err", err)
	}
}

func (ls *LiveIndexService) drop(sessionID, conID uuid.UUID) {
	ls.mutex.Lock()
	defer ls.mutex.Unlock()
	delete(ls.sessions[sessionID], conID)
	if len(ls.sessions[sessionID]) == 0 {
		delete(ls.sessions, sessionID)
	}
}

// CloseSessionConns закрывает все подключения к сессии. Вызывается при
// уничтожении сессии.
func (ls *LiveIndexService) CloseSessionConns(sessionID uuid.UUID) {
	ls.mutex.Lock()
	defer ls.mutex.Unlock()
	cons, ok := ls.sessions[sessionID]
	if !ok {
		return
	}
	for _, con := range cons {
		con.Close(websocket.StatusNormalClosure, "session destroyed")
	}
}

func (ls *LiveIndexService) pingLoop(sessionID, conID uuid.UUID, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := conn.Ping(ctx)
		cancel()
		if err != nil {
			slog.Debug("Ping to websocket failed", "sessionId", sessionID, "err", err)
			ls.drop(sessionID, conID)
			conn.Close(websocket.StatusNormalClosure, "Ping failed, connection closed")
			return
		}
	}
}
