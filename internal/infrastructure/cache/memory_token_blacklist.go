package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tienda-pos/internal/application/auth"
)

var _ auth.TokenBlacklist = (*MemoryTokenBlacklist)(nil)

// MemoryTokenBlacklist lista negra en proceso, usada cuando no hay REDIS_ADDR.
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenBlacklist construye una lista vacía.
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryTokenBlacklist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purge()
	b.entries[tokenID] = expiresAt
	return nil
}

func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !b.now().Before(exp) {
		delete(b.entries, tokenID)
		return false, nil
	}
	return true, nil
}

// purge descarta entradas vencidas. Requiere mu tomado.
func (b *MemoryTokenBlacklist) purge() {
	now := b.now()
	for id, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, id)
		}
	}
}
