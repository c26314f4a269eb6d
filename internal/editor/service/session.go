package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/project"
	"interior-planner/internal/editor/render"
	"interior-planner/internal/editor/store"
	"interior-planner/internal/editor/tool"
)

var ErrSessionNotFound = errors.New("session not found")

// ============================================================
// Session
// ============================================================

// Session одна открытая вкладка редактора: документ, инструменты и рендер.
type Session struct {
	ID        string
	CreatedAt time.Time
	Viewport  geometry.Viewport

	Store  *store.Store
	Walls  *tool.WallTool
	Gizmo  *tool.Gizmo
	Keys   *tool.Keymap
	Render *render.Job

	mu        sync.Mutex
	projectID string
	files     *FileStorage
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// ProjectID id проекта в базе; пусто, пока сессия не сохранялась.
func (s *Session) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID
}

func (s *Session) SetProjectID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = id
}

// EnsureProjectID возвращает id проекта, выдавая новый при первом сохранении.
func (s *Session) EnsureProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.projectID == "" {
		s.projectID = uuid.NewString()
	}
	return s.projectID
}

// StartRender запускает рендер в контексте сессии, а не запроса.
func (s *Session) StartRender() {
	s.Render.Start(s.ctx)
}

// Pick выделяет объект под точкой холста. С additive объект добавляется к
// выделению, а промах выделение не снимает.
func (s *Session) Pick(screen models.Point, additive bool) (string, []string) {
	world := s.Viewport.ScreenToWorld(screen)
	st := s.Store.Snapshot()

	id, ok := tool.Pick(st.Walls, st.Assets, world, tool.PickTolerancePx/s.Viewport.PixelsPerMeter)
	if !ok {
		if !additive {
			s.Store.ClearSelection()
		}
		return "", s.Store.Selection()
	}

	ids := []string{id}
	if additive {
		ids = append(st.Selection, id)
	}
	return id, s.Store.SetSelected(ids)
}

// NewProject сбрасывает документ и прерывает всё, что к нему относилось.
func (s *Session) NewProject() {
	s.Render.Stop()
	s.Walls.Cancel()
	s.Gizmo.Cancel()
	s.Store.NewProject()
	s.SetProjectID("")
}

// Load заменяет документ; при ошибке состояние не меняется.
func (s *Session) Load(doc project.Document) error {
	if err := s.Store.Load(doc); err != nil {
		return err
	}
	s.Walls.Cancel()
	s.Gizmo.Cancel()
	return nil
}

// Export сохраняет документ в файл проекта.
func (s *Session) Export() (project.Document, string, error) {
	doc := s.Store.Save()
	if s.files == nil {
		return doc, "", nil
	}
	path, err := s.files.SaveProject(s.ID, doc)
	if err != nil {
		return doc, "", err
	}
	s.log.Info("project exported", zap.String("path", path))
	return doc, path, nil
}

func (s *Session) close() {
	s.cancel()
	s.Render.Close()
	s.Walls.Cancel()
	s.Gizmo.Cancel()
}

// ============================================================
// Session Manager
// ============================================================

type Options struct {
	HistoryLimit int
	RenderTick   time.Duration
	Viewport     geometry.Viewport
	Files        *FileStorage
	Log          *zap.Logger
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
}

func NewSessionManager(opts Options) *SessionManager {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = store.DefaultHistoryLimit
	}
	if opts.Viewport.PixelsPerMeter <= 0 {
		opts.Viewport = geometry.DefaultViewport()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

func (m *SessionManager) Create() *Session {
	id := uuid.NewString()
	log := m.opts.Log.With(zap.String("session", id))

	st := store.New(
		store.WithHistoryLimit(m.opts.HistoryLimit),
		store.WithLogger(log.Named("store")),
	)
	ctx, cancel := context.WithCancel(context.Background())

	sess := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Viewport:  m.opts.Viewport,
		Store:     st,
		Walls:     tool.NewWallTool(st, m.opts.Viewport),
		Gizmo:     tool.NewGizmo(st),
		Render:    render.NewJob(m.opts.RenderTick, log.Named("render")),
		files:     m.opts.Files,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	sess.Keys = &tool.Keymap{
		Target: st,
		Walls:  sess.Walls,
		Gizmo:  sess.Gizmo,
		Save: func() error {
			_, _, err := sess.Export()
			return err
		},
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	log.Info("session created")
	return sess
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// IDs открытые сессии, от старых к новым.
func (m *SessionManager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })

	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}

func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.close()
	sess.log.Info("session closed")
	return nil
}

// CloseAll закрывает все сессии при остановке сервера.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}
