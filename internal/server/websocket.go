package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"rectification-lab/internal/observability"
	"rectification-lab/internal/orchestrator"
	"rectification-lab/internal/reporting"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the request message
	requestWait = 30 * time.Second
	// Maximum message size allowed from peer
	maxMessageSize = 1024 * 1024
)

// Stream message types.
const (
	MessageAttempt = "attempt"
	MessageResult  = "result"
	MessageError   = "error"
)

// StreamMessage is one frame sent to a streaming client.
type StreamMessage struct {
	Type    string                     `json:"type"`
	Attempt *orchestrator.AttemptTrace `json:"attempt,omitempty"`
	Report  *reporting.Report          `json:"report,omitempty"`
	Error   *ErrorResponse             `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleStream reads one RectifyRequest from the socket, streams an attempt
// frame after every fallback attempt and finishes with a result or error frame.
// Closing the socket abandons the search.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		observability.RecordHTTPRequest("stream", http.StatusBadRequest)
		return
	}
	defer conn.Close()
	observability.RecordHTTPRequest("stream", http.StatusSwitchingProtocols)

	done := observability.StreamOpened()
	defer done()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(requestWait))

	var body RectifyRequest
	if err := conn.ReadJSON(&body); err != nil {
		s.send(conn, StreamMessage{Type: MessageError, Error: &ErrorResponse{Error: "decode request: " + err.Error(), Kind: "invalid_input"}})
		return
	}
	conn.SetReadDeadline(time.Time{})

	req, err := body.ToDomain()
	if err != nil {
		_, kind := classify(err)
		s.send(conn, StreamMessage{Type: MessageError, Error: &ErrorResponse{Error: err.Error(), Kind: kind}})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Any read failure after the request means the client went away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	result, err := s.searcher.Run(ctx, req, func(trace orchestrator.AttemptTrace) {
		if err := s.send(conn, StreamMessage{Type: MessageAttempt, Attempt: &trace}); err != nil {
			cancel()
		}
	})
	if err != nil {
		_, kind := classify(err)
		s.send(conn, StreamMessage{Type: MessageError, Error: &ErrorResponse{Error: err.Error(), Kind: kind}})
		return
	}

	if err := s.send(conn, StreamMessage{Type: MessageResult, Report: s.generator.Generate(result, nil)}); err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) send(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Debug("stream write failed", zap.String("type", msg.Type), zap.Error(err))
		return err
	}
	return nil
}
