// Package theme keeps the light/dark display preference.
package theme

import (
	"fmt"
	"sync"
)

// Theme is a display preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse validates a raw theme name.
func Parse(raw string) (Theme, error) {
	switch t := Theme(raw); t {
	case Light, Dark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", raw)
	}
}

// Store holds the current theme. The zero value is not usable, call New.
type Store struct {
	mu       sync.RWMutex
	current  Theme
	onChange func(Theme)
}

// Option tweaks a Store.
type Option func(*Store)

// WithOnChange registers a hook run after every Set, Toggle or Init.
// It is where callers apply the theme to the page and persist it.
func WithOnChange(fn func(Theme)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New returns a store set to Light.
func New(opts ...Option) *Store {
	s := &Store{current: Light}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set switches to t. Values other than Light and Dark are rejected.
func (s *Store) Set(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	s.apply(t)
	return nil
}

// Toggle flips between Light and Dark and returns the new theme.
func (s *Store) Toggle() Theme {
	s.mu.Lock()
	next := Dark
	if s.current == Dark {
		next = Light
	}
	s.current = next
	s.mu.Unlock()

	s.notify(next)
	return next
}

// Init picks the starting theme: saved when it names a valid theme,
// otherwise Dark if the system prefers it and Light if not.
func (s *Store) Init(saved string, prefersDark bool) Theme {
	t, err := Parse(saved)
	if err != nil {
		t = Light
		if prefersDark {
			t = Dark
		}
	}
	s.apply(t)
	return t
}

func (s *Store) apply(t Theme) {
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()

	s.notify(t)
}

func (s *Store) notify(t Theme) {
	if s.onChange != nil {
		s.onChange(t)
	}
}
