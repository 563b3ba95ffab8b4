package main

import (
	"context"
	"log/slog"
	"sync"
)

type imageSource interface {
	Images(ctx context.Context) (Images, error)
}

// FeedStore owns the single FeedState of a session. Every Load replaces the
// whole state; nothing else writes to it.
type FeedStore struct {
	source imageSource
	logger *slog.Logger

	mu        sync.Mutex
	state     FeedState
	issued    uint64
	observers []func(FeedState)
}

func NewFeedStore(source imageSource, logger *slog.Logger) *FeedStore {
	return &FeedStore{
		source: source,
		logger: resolveLogger(logger),
		state:  FeedState{Status: Loading},
	}
}

// State returns the current snapshot.
func (s *FeedStore) State() FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every state transition.
func (s *FeedStore) Subscribe(fn func(FeedState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load re-fetches the feed. The store is Loading until the request settles,
// then Ready or Failed. When loads overlap only the most recently issued one
// settles the store; older responses are dropped.
func (s *FeedStore) Load(ctx context.Context) FeedState {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()
	s.set(seq, FeedState{Status: Loading})

	images, err := s.source.Images(ctx)

	next := readyState(images)
	if err != nil {
		s.logger.Warn("load images failed", "seq", seq, "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "Failed to fetch images"
		}
		next = failedState(msg)
	} else {
		s.logger.Debug("loaded images", "seq", seq, "count", len(images))
	}
	if !s.set(seq, next) {
		s.logger.Debug("discarding stale images response", "seq", seq, "status", next.Status)
	}
	return s.State()
}

func (s *FeedStore) set(seq uint64, next FeedState) bool {
	s.mu.Lock()
	if seq != s.issued {
		s.mu.Unlock()
		return false
	}
	s.state = next
	observers := append([]func(FeedState){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
	return true
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
