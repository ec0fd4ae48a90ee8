// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package session keeps in-memory editing sessions for the HTTP API. Each
// session owns an immutable interface snapshot that is swapped wholesale on
// every edit, so renders never observe a half-applied change.
package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

const (
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepInterval = time.Minute
	DefaultMaxSessions   = 256
)

// Session is a point-in-time view of one editing session
type Session struct {
	ID         string            `json:"id"`
	Profile    string            `json:"profile"`
	Interfaces []types.Interface `json:"interfaces"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type entry struct {
	id        string
	profile   string
	set       netmage.InterfaceSet
	createdAt time.Time
	updatedAt time.Time
}

func (e *entry) view() Session {
	return Session{
		ID:         e.id,
		Profile:    e.profile,
		Interfaces: e.set.All(),
		CreatedAt:  e.createdAt,
		UpdatedAt:  e.updatedAt,
	}
}

// Config tunes a Store
type Config struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	MaxSessions   int
	Now           func() time.Time
}

// Store holds editing sessions keyed by id
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	cfg      Config
	logger   logger.Logger

	scheduler gocron.Scheduler
	stop      chan struct{}
}

// NewStore creates an empty store. Zero config values take defaults.
func NewStore(l logger.Logger, cfg Config) (*Store, error) {
	if l == nil {
		return nil, errors.New(errors.SessionCreateFailed, "logger cannot be nil")
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Store{
		sessions: make(map[string]*entry),
		cfg:      cfg,
		logger:   l,
	}, nil
}

// Create opens a session holding one default interface. An empty profile
// selects the default profile; unknown profiles are rejected.
func (s *Store) Create(profile string) (Session, error) {
	if profile == "" {
		profile = netmage.DefaultProfileID
	}
	if _, err := netmage.LookupProfile(profile); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.cfg.MaxSessions {
		return Session{}, errors.New(errors.SessionLimitExceeded, "close an existing session first").
			WithMetadata("max_sessions", strconv.Itoa(s.cfg.MaxSessions))
	}

	set, _ := netmage.NewInterfaceSet().AddDefault()
	now := s.cfg.Now()
	e := &entry{
		id:        uuid.New().String(),
		profile:   profile,
		set:       set,
		createdAt: now,
		updatedAt: now,
	}
	s.sessions[e.id] = e

	s.logger.Debug("Session created", "session_id", e.id, "profile", profile)
	return e.view(), nil
}

// Get returns the session and refreshes its idle timer
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return Session{}, err
	}
	e.updatedAt = s.cfg.Now()
	return e.view(), nil
}

// Delete closes a session
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(id); err != nil {
		return err
	}
	delete(s.sessions, id)

	s.logger.Debug("Session deleted", "session_id", id)
	return nil
}

// SetProfile selects the OS profile used for netplan output
func (s *Store) SetProfile(id, profile string) (Session, error) {
	if _, err := netmage.LookupProfile(profile); err != nil {
		return Session{}, err
	}

	return s.update(id, func(e *entry) error {
		e.profile = profile
		return nil
	})
}

// AddInterface appends a new interface with default settings. An empty name
// is replaced by the next ethN name.
func (s *Store) AddInterface(id, name string, deviceType types.DeviceType) (Session, types.Interface, error) {
	var created types.Interface
	view, err := s.update(id, func(e *entry) error {
		if name == "" {
			e.set, created = e.set.AddDefault()
			if deviceType != "" {
				created = created.WithType(deviceType)
				next, err := e.set.Replace(created)
				if err != nil {
					return err
				}
				e.set = next
			}
			return nil
		}
		created = netmage.NewInterface(name, deviceType)
		e.set = e.set.Add(created)
		return nil
	})
	return view, created, err
}

// ReplaceInterface swaps an interface for iface as a whole record
func (s *Store) ReplaceInterface(id string, iface types.Interface) (Session, error) {
	return s.update(id, func(e *entry) error {
		next, err := e.set.Replace(iface)
		if err != nil {
			return err
		}
		e.set = next
		return nil
	})
}

// RemoveInterface drops an interface by id
func (s *Store) RemoveInterface(id, ifaceID string) (Session, error) {
	return s.update(id, func(e *entry) error {
		next, err := e.set.Remove(ifaceID)
		if err != nil {
			return err
		}
		e.set = next
		return nil
	})
}

// Len returns the number of open sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout and returns
// how many were closed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.cfg.Now().Add(-s.cfg.IdleTimeout)
	removed := 0
	for id, e := range s.sessions {
		if e.updatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("Evicted idle sessions",
			"removed", removed,
			"remaining", len(s.sessions))
	}
	return removed
}

// StartSweeper schedules Sweep every SweepInterval until Stop is called or
// ctx is done. A running sweeper must be stopped before it can be started
// again.
func (s *Store) StartSweeper(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return errors.New(errors.SessionSweepFailed, "sweeper already running").
			WithMetadata("operation", "start")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, errors.SessionSweepFailed).
			WithMetadata("operation", "create_scheduler")
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.SweepInterval),
		gocron.NewTask(func() {
			s.Sweep()
		}),
		gocron.WithName("session_sweeper"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return errors.Wrap(err, errors.SessionSweepFailed).
			WithMetadata("operation", "schedule_sweep")
	}

	stop := make(chan struct{})
	s.scheduler = scheduler
	s.stop = stop

	scheduler.Start()
	s.logger.Info("Session sweeper started",
		"interval", s.cfg.SweepInterval,
		"idle_timeout", s.cfg.IdleTimeout)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stop:
		}
	}()

	return nil
}

// Stop shuts the sweeper down. It is safe to call more than once.
func (s *Store) Stop() {
	s.mu.Lock()
	scheduler, stop := s.scheduler, s.stop
	s.scheduler, s.stop = nil, nil
	s.mu.Unlock()

	if scheduler == nil {
		return
	}
	close(stop)
	if err := scheduler.Shutdown(); err != nil {
		s.logger.Warn("Failed to stop session sweeper", "error", err)
	}
}

// Running reports whether the sweeper is scheduled
func (s *Store) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduler != nil
}

func (s *Store) update(id string, fn func(e *entry) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return Session{}, err
	}
	if err := fn(e); err != nil {
		if re, ok := err.(*errors.RodentError); ok {
			return Session{}, re.WithMetadata("session_id", id)
		}
		return Session{}, err
	}
	e.updatedAt = s.cfg.Now()
	return e.view(), nil
}

// lookup must be called with mu held
func (s *Store) lookup(id string) (*entry, error) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(errors.SessionNotFound, "no session with the given id").
			WithMetadata("session_id", id)
	}
	return e, nil
}
