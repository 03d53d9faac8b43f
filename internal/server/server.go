package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server accepts WebSocket clients and routes their commands into the
// session controller. Connections are indexed by the player id assigned
// at upgrade time.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[string]*Connection
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	controller  *Controller
	httpServer  *http.Server

	seqMu     sync.Mutex
	playerSeq int
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetController wires the session controller. Must be called before Start.
func (s *Server) SetController(controller *Controller) {
	s.controller = controller
}

// Start starts the WebSocket server and blocks until it stops.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for _, conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn.PlayerID()] = conn
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "player", conn.PlayerID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn.PlayerID()]; ok {
				delete(s.connections, conn.PlayerID())
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			// Leaving the room fans out player-list updates and prunes
			// any running game, same as an explicit leave-room.
			if s.controller != nil {
				s.controller.Disconnect(conn.PlayerID())
			}
			s.logger.Info("Client disconnected", "player", conn.PlayerID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.nextPlayerID(), s.logger, s.controller)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) nextPlayerID() string {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.playerSeq++
	return fmt.Sprintf("player-%d", s.playerSeq)
}

// SendToPlayer sends a message to a specific player. Unknown ids are
// dropped; CPU players never have a connection.
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	conn, ok := s.connections[playerID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return conn.SendMessage(msg)
}
