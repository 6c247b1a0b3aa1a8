package services

import (
	"context"
	"sync"
	"time"

	"brainstorm/application/ports"
	"brainstorm/domain/config"
	"brainstorm/domain/core/aggregates"
	"brainstorm/pkg/cache"

	"go.uber.org/zap"
)

// Session is the navigation state of one reader: the loaded graph, the presented feed,
// the open layout and the camera looking at it.
type Session struct {
	ID        string
	UserID    string
	Store     *aggregates.GraphStore
	Assembler *ThreadAssembler
	Layout    *LayoutView
	Viewport  *ViewportSession

	stop context.CancelFunc
}

// Close releases the session's background work
func (s *Session) Close() {
	s.stop()
	s.Layout.Close()
	s.Assembler.Wait()
}

// SessionRegistry hands out one session per user and session id and expires idle ones
type SessionRegistry struct {
	data      ports.GraphDataService
	publisher ports.EventPublisher
	inst      Instrumentation
	logger    *zap.Logger
	sessions  *cache.TTLCache[*Session]

	mu     sync.RWMutex
	config *config.EngineConfig
}

// NewSessionRegistry creates a registry whose sessions expire after idleTTL without use
func NewSessionRegistry(
	data ports.GraphDataService,
	publisher ports.EventPublisher,
	cfg *config.EngineConfig,
	inst Instrumentation,
	idleTTL time.Duration,
	logger *zap.Logger,
) *SessionRegistry {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	r := &SessionRegistry{
		data:      data,
		publisher: publisher,
		config:    cfg,
		inst:      inst.withDefaults(),
		logger:    orNop(logger),
	}
	r.sessions = cache.New[*Session](idleTTL,
		cache.WithSlidingExpiry[*Session](),
		cache.WithEvictionCallback[*Session](r.evict),
	)
	r.sessions.StartCleanup(time.Minute)
	return r
}

// Get returns the session for userID and sessionID, creating it on first use
func (r *SessionRegistry) Get(userID, sessionID string) *Session {
	session, created := r.sessions.GetOrCreate(sessionKey(userID, sessionID), func() *Session {
		return r.newSession(userID, sessionID)
	})
	if created {
		r.logger.Debug("Session created", zap.String("userID", userID), zap.String("sessionID", sessionID))
	}
	return session
}

// End closes and forgets a session
func (r *SessionRegistry) End(userID, sessionID string) {
	r.sessions.Delete(sessionKey(userID, sessionID))
}

// SetConfig swaps the engine config used by sessions created from now on.
// Open sessions keep the config they were built with.
func (r *SessionRegistry) SetConfig(cfg *config.EngineConfig) {
	if cfg == nil {
		return
	}
	r.mu.Lock()
	r.config = cfg
	r.mu.Unlock()
	r.logger.Info("Engine config updated for new sessions")
}

// Config returns the engine config applied to new sessions
func (r *SessionRegistry) Config() *config.EngineConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// Count returns the number of tracked sessions
func (r *SessionRegistry) Count() int {
	return r.sessions.Len()
}

// Close stops the expiry loop
func (r *SessionRegistry) Close() {
	r.sessions.Close()
}

func (r *SessionRegistry) newSession(userID, sessionID string) *Session {
	cfg := r.Config()
	store := aggregates.NewGraphStore(aggregates.RankerFor(cfg.SoftLinkRanking))
	engine := NewLayoutEngine(r.data, cfg, r.inst, r.logger)
	view := NewLayoutView(engine, r.publisher, r.logger)
	vp := NewViewportSession(view, cfg)

	ctx, stop := context.WithCancel(context.Background())
	vp.Start(ctx)

	return &Session{
		ID:        sessionID,
		UserID:    userID,
		Store:     store,
		Assembler: NewThreadAssembler(store, r.data, r.publisher, cfg, r.inst, r.logger),
		Layout:    view,
		Viewport:  vp,
		stop:      stop,
	}
}

func (r *SessionRegistry) evict(key string, s *Session) {
	s.Close()
	r.logger.Debug("Session closed", zap.String("key", key))
}

func sessionKey(userID, sessionID string) string {
	return userID + "/" + sessionID
}
