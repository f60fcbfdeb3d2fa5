// Package store archives the frames the relay has broadcast in each room so
// that peers joining late can be brought up to date.
package store

import (
	"context"
	"sync"
)

// Archive keeps frames per room in arrival order.
type Archive interface {
	Append(ctx context.Context, roomID string, frame []byte) error
	History(ctx context.Context, roomID string) ([][]byte, error)
	Close() error
}

type memory struct {
	mu     sync.RWMutex
	frames map[string][][]byte
}

// NewMemoryArchive loses everything on restart.
func NewMemoryArchive() Archive {
	return &memory{frames: make(map[string][][]byte)}
}

func (m *memory) Append(ctx context.Context, roomID string, frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[roomID] = append(m.frames[roomID], append([]byte(nil), frame...))
	return nil
}

func (m *memory) History(ctx context.Context, roomID string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	frames := make([][]byte, len(m.frames[roomID]))
	copy(frames, m.frames[roomID])
	return frames, nil
}

func (m *memory) Close() error { return nil }
