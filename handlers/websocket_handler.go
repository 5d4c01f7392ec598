package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gamebay/tournament-engine/brackets"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TournamentRoom upgrades the connection and subscribes it to one
// tournament's event stream.
func (h *WebSocketHandler) TournamentRoom(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := intURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("tournament_id", tournamentID),
			slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.TournamentRoom(tournamentID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
