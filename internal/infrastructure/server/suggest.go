package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/domain/entities"
)

const (
	wsReadLimit    = 4 << 10
	wsIdleTimeout  = 10 * time.Minute
	wsWriteTimeout = 10 * time.Second
)

// Client message types.
const (
	msgInput  = "input"
	msgKey    = "key"
	msgSelect = "select"
)

// Server message types.
const (
	msgSuggestions = "suggestions"
	msgActive      = "active"
	msgSearch      = "search"
	msgError       = "error"
)

type clientMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Key   string `json:"key"`
	Index int    `json:"index"`
}

type serverMessage struct {
	Type        string                 `json:"type"`
	Text        string                 `json:"text,omitempty"`
	Suggestions []entities.Suggestion  `json:"suggestions,omitempty"`
	Index       *int                   `json:"index,omitempty"`
	Result      *handlers.SearchResult `json:"result,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg serverMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := &wsConn{conn: conn}
	conn.SetReadLimit(wsReadLimit)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug("suggest stream closed", "session", sess.ID, "error", err)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendOrLog(out, sess, serverMessage{Type: msgError, Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "", msgInput:
			s.suggest.OnInput(ctx, sess, msg.Text, func(text string, list []entities.Suggestion) {
				s.sendOrLog(out, sess, serverMessage{Type: msgSuggestions, Text: text, Suggestions: list})
			})
		case msgKey:
			key := handlers.NavKey(msg.Key)
			if key == handlers.KeyEnter {
				s.pick(ctx, out, sess, -1)
				continue
			}
			idx := sess.MoveCursor(key)
			s.sendOrLog(out, sess, serverMessage{Type: msgActive, Index: &idx})
		case msgSelect:
			s.pick(ctx, out, sess, msg.Index)
		default:
			s.sendOrLog(out, sess, serverMessage{Type: msgError, Error: "unknown message type " + msg.Type})
		}
	}
}

// pick runs a search for the chosen suggestion. Enter with nothing
// highlighted does nothing.
func (s *Server) pick(ctx context.Context, out *wsConn, sess *handlers.Session, index int) {
	sug, ok := s.suggest.Pick(sess, index)
	if !ok {
		if index >= 0 {
			s.sendOrLog(out, sess, serverMessage{Type: msgError, Error: "no such suggestion"})
		}
		return
	}
	s.sendOrLog(out, sess, serverMessage{Type: msgSuggestions, Text: sug.Label})

	go func() {
		result, err := s.search.Search(ctx, sess, sug.Label)
		if err != nil {
			s.sendOrLog(out, sess, serverMessage{Type: msgError, Error: err.Error()})
			return
		}
		s.recordSearch(result)
		s.sendOrLog(out, sess, serverMessage{Type: msgSearch, Text: sug.Label, Result: result})
	}()
}

func (s *Server) sendOrLog(out *wsConn, sess *handlers.Session, msg serverMessage) {
	if err := out.send(msg); err != nil {
		s.logger.Debug("websocket write failed", "session", sess.ID, "type", msg.Type, "error", err)
	}
}
