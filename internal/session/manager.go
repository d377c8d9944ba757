// Package session keeps one board per client session and project.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/board"
	"github.com/BuzzLyutic/taskboard/internal/repo"
	"github.com/BuzzLyutic/taskboard/internal/service"
)

var ErrMissingIdentity = errors.New("session id and project are required")

// Store is the slice of the gateway a session needs.
type Store interface {
	repo.TaskGateway
	repo.CommentGateway
	repo.MemberGateway
}

// Session bundles the per-user state of one open board: its cache, the
// command surface bound to it, the comment thread and the drag in progress.
type Session struct {
	ID        string
	ProjectID string
	UserID    string

	Board    *board.Board
	Tasks    *service.TaskService
	Comments *service.CommentThread
	Members  *service.MemberService
	Drag     *board.DragSession

	lastSeen time.Time
}

type key struct {
	session string
	project string
	user    string
}

type Manager struct {
	store   Store
	timeout time.Duration
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[key]*Session
}

func NewManager(store Store, timeout, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		timeout:  timeout,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[key]*Session),
	}
}

// Open returns the session for the triple, creating it and loading its board
// on first use. A board that fails its first load is not kept.
func (m *Manager) Open(ctx context.Context, sessionID, projectID, userID string) (*Session, error) {
	if sessionID == "" || projectID == "" {
		return nil, ErrMissingIdentity
	}
	k := key{session: sessionID, project: projectID, user: userID}

	if s, ok := m.touch(k); ok {
		return s, nil
	}

	s := m.build(k)
	if err := s.Board.Refresh(ctx); err != nil {
		return nil, errors.Join(service.ErrGateway, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[k]; ok {
		existing.lastSeen = m.now()
		return existing, nil
	}
	s.lastSeen = m.now()
	m.sessions[k] = s
	m.logger.Info("session opened",
		zap.String("session_id", sessionID),
		zap.String("project_id", projectID),
		zap.String("user_id", userID),
	)
	return s, nil
}

func (m *Manager) touch(k key) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[k]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

func (m *Manager) build(k key) *Session {
	b := board.New(k.project, m.store, m.timeout, m.logger)
	tasks := service.NewTaskService(m.store, b, service.Scope{ProjectID: k.project, UserID: k.user}, m.timeout, m.logger)
	return &Session{
		ID:        k.session,
		ProjectID: k.project,
		UserID:    k.user,
		Board:     b,
		Tasks:     tasks,
		Comments:  service.NewCommentThread(m.store, b, m.timeout, m.logger),
		Members:   service.NewMemberService(m.store, k.project, m.timeout, m.logger),
		Drag:      board.NewDragSession(tasks, b),
	}
}

// Close drops every session held under sessionID.
func (m *Manager) Close(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.sessions {
		if k.session == sessionID {
			delete(m.sessions, k)
			n++
		}
	}
	return n
}

// Sweep evicts sessions idle for longer than the ttl. An armed drag in an
// evicted session expires with it.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, k)
			n++
		}
	}
	if n > 0 {
		m.logger.Info("idle sessions evicted", zap.Int("count", n), zap.Int("remaining", len(m.sessions)))
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
