package ui

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dhamidi/fishast/fish/parser"
	"github.com/dhamidi/fishast/format"
)

const wsReadTimeout = 120 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The playground is served to localhost only.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// checkResult answers one live-check message.
type checkResult struct {
	Type        string              `json:"type"`
	Incomplete  bool                `json:"incomplete"`
	Diagnostics []format.Diagnostic `json:"diagnostics"`
}

// check parses src as the editor would while the user is typing.
func check(src string) checkResult {
	var errs parser.ErrorList
	parser.Parse(src, parser.ContinueAfterError, &errs)
	return checkResult{
		Type:        "diagnostics",
		Incomplete:  parser.IsIncomplete(src),
		Diagnostics: format.Diagnostics(src, errs.Sorted()),
	}
}

// handleWebSocket answers each text message, taken as a whole script, with
// its diagnostics.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("websocket upgrade: %s", err)
		return
	}
	defer conn.Close()

	log.Infof("websocket connected: %s", conn.RemoteAddr())

	conn.SetReadLimit(maxSourceBytes)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("websocket read: %s", err)
			} else {
				log.Infof("websocket closed: %s", conn.RemoteAddr())
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		if msgType != websocket.TextMessage {
			continue
		}
		if err := conn.WriteJSON(check(string(data))); err != nil {
			log.Errorf("websocket write: %s", err)
			return
		}
	}
}
