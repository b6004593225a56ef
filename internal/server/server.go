package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"polyarena/internal/config"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // Must be less than pongWait
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server handles HTTP and WebSocket connections
type Server struct {
	cfg   *config.Config
	world *World
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:   cfg,
		world: NewWorld(cfg),
	}
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start starts the arena world and serves on the configured address
func (s *Server) Start() error {
	// Start the arena world
	go s.world.Start()
	defer s.world.Stop()

	log.Printf("Server starting on %s", s.cfg.Server.Addr)
	return http.ListenAndServe(s.cfg.Server.Addr, s.Handler())
}

// handleWebSocket upgrades the connection and starts a session for it
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.world.Full() {
		http.Error(w, ErrWorldFull.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	session := NewSession(conn, s.cfg)
	if err := s.world.AddSession(session); err != nil {
		// Lost the race for the last slot
		log.Printf("Rejecting session %s: %v", session.ID, err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	// Start session goroutines
	go s.handleSessionReads(session)
	go s.handleSessionWrites(session)
}

// handleStats reports the registry and snapshot counters as JSON
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.world.Stats()); err != nil {
		log.Printf("Error encoding stats: %v", err)
	}
}

// handleSessionReads reads messages from the client
func (s *Server) handleSessionReads(session *Session) {
	defer func() {
		session.Conn.Close()
		s.world.RemoveSession(session.ID)
	}()

	// Set read deadline and pong handler for keepalive
	session.Conn.SetReadDeadline(time.Now().Add(pongWait))
	session.Conn.SetPongHandler(func(string) error {
		session.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, messageBytes, err := session.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		msg, err := decodeClientMsg(messageType, messageBytes)
		if err != nil {
			log.Printf("Error unmarshaling message from session %s: %v", session.ID, err)
			continue
		}

		session.HandleMessage(msg)
	}
}

// handleSessionWrites sends queued frames to the client
func (s *Server) handleSessionWrites(session *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		session.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-session.Send:
			session.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				session.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := session.Conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				log.Printf("Write error: %v", err)
				return
			}

		case <-ticker.C:
			session.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := session.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
