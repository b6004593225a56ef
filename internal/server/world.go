package server

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"polyarena/internal/config"
	"polyarena/internal/game"
)

// ErrWorldFull is returned when the session registry is at capacity
var ErrWorldFull = errors.New("world is full")

// World ticks every connected session and delivers their frames
type World struct {
	cfg      *config.Config
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	running  bool
	quit     chan struct{}
	stopOnce sync.Once

	snapshotCount     int64
	totalSnapshotSize int64
}

// StatsResponse is the body of the stats endpoint
type StatsResponse struct {
	Sessions      int                        `json:"sessions"`
	MaxSessions   int                        `json:"maxSessions"`
	Snapshots     int64                      `json:"snapshots"`
	SnapshotBytes int64                      `json:"snapshotBytes"`
	Shapes        map[string]game.ShapeStats `json:"shapes"`
}

// NewWorld creates an empty world
func NewWorld(cfg *config.Config) *World {
	return &World{
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Session),
		quit:     make(chan struct{}),
	}
}

// Start runs the tick loop until Stop. Each tick passes the real elapsed time.
func (w *World) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	ticker := time.NewTicker(time.Second / time.Duration(w.cfg.Server.TickRate))
	defer ticker.Stop()

	log.Printf("Arena world started at %d ticks per second", w.cfg.Server.TickRate)
	last := time.Now()
	for {
		select {
		case <-w.quit:
			log.Println("Arena world stopped")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			w.update(dt)
		}
	}
}

// Stop ends the tick loop
func (w *World) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

// AddSession registers a session and queues its welcome message
func (w *World) AddSession(session *Session) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.sessions) >= w.cfg.Server.MaxSessions {
		return ErrWorldFull
	}
	w.sessions[session.ID] = session

	data, err := session.welcome()
	if err != nil {
		log.Printf("Error marshaling welcome message: %v", err)
	} else {
		select {
		case session.Send <- data:
		default:
			log.Printf("Could not send welcome message to session %s", session.ID)
		}
	}

	log.Printf("Session %s joined (%d/%d)", session.ID, len(w.sessions), w.cfg.Server.MaxSessions)
	return nil
}

// RemoveSession unregisters a session and closes its send channel
func (w *World) RemoveSession(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if session, exists := w.sessions[id]; exists {
		log.Printf("Session %s left", id)
		close(session.Send)
		delete(w.sessions, id)
	}
}

// GetSession returns a session by ID
func (w *World) GetSession(id uuid.UUID) (*Session, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	session, exists := w.sessions[id]
	return session, exists
}

// Full reports whether another session would be rejected
func (w *World) Full() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.sessions) >= w.cfg.Server.MaxSessions
}

// update runs one tick of every session and sends each its frame
func (w *World) update(dt float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, session := range w.sessions {
		data, snap, err := session.step(dt)
		if err != nil {
			log.Printf("Error marshaling snapshot for session %s: %v", session.ID, err)
			continue
		}

		select {
		case session.Send <- data:
			session.delivered(snap)
			atomic.AddInt64(&w.snapshotCount, 1)
			atomic.AddInt64(&w.totalSnapshotSize, int64(len(data)))
		default:
			// Channel full, the next frame diffs against the last one queued
		}
	}
}

// GetSnapshotStats returns the current snapshot statistics
func (w *World) GetSnapshotStats() (count int64, totalSize int64) {
	return atomic.LoadInt64(&w.snapshotCount), atomic.LoadInt64(&w.totalSnapshotSize)
}

// Stats reports the registry, the shape populations and the snapshot counters
func (w *World) Stats() StatsResponse {
	count, size := w.GetSnapshotStats()

	w.mu.RLock()
	defer w.mu.RUnlock()

	resp := StatsResponse{
		Sessions:      len(w.sessions),
		MaxSessions:   w.cfg.Server.MaxSessions,
		Snapshots:     count,
		SnapshotBytes: size,
		Shapes:        make(map[string]game.ShapeStats, len(w.sessions)),
	}
	for id, session := range w.sessions {
		resp.Shapes[id.String()] = session.shapeStats()
	}
	return resp
}
