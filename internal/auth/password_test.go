package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testArgon2Params = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
		"argon2id": NewArgon2Hasher(testArgon2Params),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := h.Hash(ctx, "secret1")
			require.NoError(t, err)
			second, err := h.Hash(ctx, "secret1")
			require.NoError(t, err)

			assert.NotEqual(t, "secret1", first)
			assert.NotEqual(t, first, second, "salt must differ per call")

			ok, err := h.Verify(ctx, "secret1", first)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify(ctx, "secret2", first)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	ok, err := NewBcryptHasher(bcrypt.MinCost).Verify(context.Background(), "secret1", "not-a-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestBcryptHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	h := NewBcryptHasher(0)
	hash, err := h.Hash(context.Background(), "secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestArgon2Hasher_Format(t *testing.T) {
	hash, err := NewArgon2Hasher(testArgon2Params).Hash(context.Background(), "secret1")
	require.NoError(t, err)
	assert.Regexp(t, `^\$argon2id\$v=19\$m=8192,t=1,p=1\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`, hash)
}

func TestArgon2Hasher_MalformedHash(t *testing.T) {
	h := NewArgon2Hasher(testArgon2Params)

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"bcrypt hash", "$2a$10$abcdefghijklmnopqrstuuvwxyz"},
		{"wrong version", "$argon2id$v=1$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA"},
		{"empty key", "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$"},
		{"zero parallelism", "$argon2id$v=19$m=65536,t=3,p=0$c2FsdA$aGFzaA"},
		{"zero time", "$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA"},
		{"zero memory", "$argon2id$v=19$m=0,t=3,p=4$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify(context.Background(), "secret1", tt.hash)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}

// gatedHasher blocks in Hash until release is closed and tracks peak concurrency
type gatedHasher struct {
	started chan struct{}
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (g *gatedHasher) Hash(ctx context.Context, password string) (string, error) {
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	g.started <- struct{}{}
	<-g.release
	return "hash", nil
}

func (g *gatedHasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	return true, nil
}

func TestBoundedHasher_LimitsConcurrency(t *testing.T) {
	inner := &gatedHasher{started: make(chan struct{}, 10), release: make(chan struct{})}
	h := NewBoundedHasher(inner, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Hash(context.Background(), "secret1")
			assert.NoError(t, err)
		}()
	}

	<-inner.started
	<-inner.started
	select {
	case <-inner.started:
		t.Fatal("third hash started while two were running")
	case <-time.After(50 * time.Millisecond):
	}

	close(inner.release)
	wg.Wait()
	assert.LessOrEqual(t, inner.peak.Load(), int32(2))
}

func TestBoundedHasher_WaitHonoursContext(t *testing.T) {
	inner := &gatedHasher{started: make(chan struct{}, 1), release: make(chan struct{})}
	h := NewBoundedHasher(inner, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.Hash(context.Background(), "secret1")
	}()
	<-inner.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Hash(ctx, "secret1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(inner.release)
	<-done
}

func TestBoundedHasher_VerifyDelegates(t *testing.T) {
	h := NewBoundedHasher(NewBcryptHasher(bcrypt.MinCost), 0)

	hash, err := h.Hash(context.Background(), "secret1")
	require.NoError(t, err)

	ok, err := h.Verify(context.Background(), "secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}
