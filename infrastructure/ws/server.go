package ws

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"arena-lab/services"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server upgrades HTTP requests to websocket connections and plugs them
// into the orchestrator.
type Server struct {
	log            *slog.Logger
	orchestrator   contract.IOrchestrator
	tokens         services.ISessionService
	sendBufferSize int
}

func NewServer(log *slog.Logger, orchestrator contract.IOrchestrator, tokens services.ISessionService, sendBufferSize int) *Server {
	return &Server{log: log, orchestrator: orchestrator, tokens: tokens, sendBufferSize: sendBufferSize}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", "error", err)
		return
	}

	id := domain.ConnID(uuid.NewString())
	conn := NewConnection(id, socket, s.log, s.sendBufferSize)
	s.orchestrator.Connect(id, conn)
	s.log.Debug("Connection opened", "conn", id, "remote", r.RemoteAddr)

	go conn.WritePump()

	if token := r.URL.Query().Get("token"); token != "" && s.tokens != nil {
		s.resume(id, token)
	}

	go func() {
		conn.ReadPump(s.orchestrator.Dispatch)
		// A second disconnect for the same connection is a no-op in the loop.
		s.orchestrator.Dispatch(domain.DisconnectCommand{From: domain.From{Conn: id}})
		s.log.Debug("Connection closed", "conn", id)
	}()
}

// resume logs a reconnecting client back in from its session token.
func (s *Server) resume(id domain.ConnID, token string) {
	name, err := s.tokens.Resume(token)
	if err != nil {
		s.log.Debug("Session token rejected", "conn", id, "error", err)
		return
	}
	s.orchestrator.Dispatch(domain.LoginCommand{From: domain.From{Conn: id}, Name: name})
}
