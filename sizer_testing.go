package gobundle

import (
	"context"
	"errors"
	"sync"

	"github.com/albertocavalcante/go-bundle/graph"
	"github.com/albertocavalcante/go-bundle/minify"
)

// Compile-time interface compliance checks
var _ minify.Sizer = FixedSizer{}
var _ minify.Sizer = (*CountingSizer)(nil)
var _ minify.Sizer = (*FailingSizer)(nil)

// FixedSizer reports preset sizes by module name and the raw source length
// for anything else. Useful for tests that need exact bundle values.
type FixedSizer map[string]int

// Size returns the preset size or len(m.Source).
func (s FixedSizer) Size(_ context.Context, m *graph.Module) (int, error) {
	if size, ok := s[m.Name]; ok {
		return size, nil
	}
	return len(m.Source), nil
}

// CountingSizer wraps another sizer and counts calls per module.
type CountingSizer struct {
	Next minify.Sizer

	mu    sync.Mutex
	calls map[string]int
}

// NewCountingSizer wraps next; a nil next measures raw length.
func NewCountingSizer(next minify.Sizer) *CountingSizer {
	if next == nil {
		next = minify.RawSizer{}
	}
	return &CountingSizer{Next: next, calls: make(map[string]int)}
}

// Size records the call and delegates.
func (s *CountingSizer) Size(ctx context.Context, m *graph.Module) (int, error) {
	s.mu.Lock()
	s.calls[m.Name]++
	s.mu.Unlock()
	return s.Next.Size(ctx, m)
}

// Calls returns how many times the module was measured.
func (s *CountingSizer) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// FailingSizer fails for the listed modules and measures the rest raw.
// Useful for testing the raw-size fallback.
type FailingSizer struct {
	Err     error
	Modules map[string]bool
}

// NewFailingSizer creates a sizer failing for the given modules.
func NewFailingSizer(err error, modules ...string) *FailingSizer {
	if err == nil {
		err = errors.New("size measurement failed")
	}
	s := &FailingSizer{Err: err, Modules: make(map[string]bool)}
	for _, m := range modules {
		s.Modules[m] = true
	}
	return s
}

// Size fails for listed modules.
func (s *FailingSizer) Size(_ context.Context, m *graph.Module) (int, error) {
	if s.Modules[m.Name] {
		return 0, s.Err
	}
	return len(m.Source), nil
}
