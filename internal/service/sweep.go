package service

import (
	"time"

	"wordquiz/internal/session"

	"go.uber.org/zap"
)

// DefaultIdleTTL is how long an untouched session is kept in memory
const DefaultIdleTTL = 2 * time.Hour

// SweepService evicts idle sessions from memory
type SweepService struct {
	sessions *session.Registry
	idleTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSweepService creates a new sweep service
func NewSweepService(sessions *session.Registry, idleTTL time.Duration, logger *zap.Logger) *SweepService {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &SweepService{
		sessions: sessions,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// CleanupIdleSessions drops sessions untouched for longer than the idle TTL
func (s *SweepService) CleanupIdleSessions() int {
	s.logger.Debug("Starting cleanup of idle sessions", zap.Duration("idle_ttl", s.idleTTL))

	removed := s.sessions.Sweep(s.now().Add(-s.idleTTL))

	s.logger.Info("Session cleanup completed",
		zap.Int("removed", removed),
		zap.Int("remaining", s.sessions.Len()),
	)
	return removed
}
