package proxy

import (
	"context"
	"errors"
	"testing"
	"time"

	"igmonitor/internal/model"

	"go.uber.org/zap"
)

// fakeRepo имитирует ProxyRepository в памяти
type fakeRepo struct {
	free     []*model.Proxy
	acquired map[int64]bool
	burnt    map[int64]bool
	failWith error
}

func newFakeRepo(proxies ...*model.Proxy) *fakeRepo {
	return &fakeRepo{
		free:     proxies,
		acquired: make(map[int64]bool),
		burnt:    make(map[int64]bool),
	}
}

func (f *fakeRepo) Acquire(burntCooldown time.Duration) (*model.Proxy, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if len(f.free) == 0 {
		return nil, nil
	}
	p := f.free[0]
	f.free = f.free[1:]
	f.acquired[p.ProxyID] = true
	return p, nil
}

func (f *fakeRepo) Release(proxyID int64, burnt bool) error {
	if !f.acquired[proxyID] {
		return errors.New("release of proxy that was not acquired")
	}
	delete(f.acquired, proxyID)
	if burnt {
		f.burnt[proxyID] = true
	}
	return nil
}

func (f *fakeRepo) Create(p *model.Proxy) error { return nil }

func (f *fakeRepo) GetFreeCount(burntCooldown time.Duration) (int, error) {
	return len(f.free), nil
}

func TestPool_ReserveRelease(t *testing.T) {
	repo := newFakeRepo(&model.Proxy{ProxyID: 1, Host: "10.0.0.1", Port: 8080})
	pool := NewPool(repo, 30*time.Minute, zap.NewNop())

	reserved, err := pool.Reserve(context.Background())
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if reserved.ProxyID != 1 {
		t.Errorf("reserved proxy %d, want 1", reserved.ProxyID)
	}

	pool.Release(reserved, false)
	if len(repo.acquired) != 0 {
		t.Error("proxy should be released")
	}
	if repo.burnt[1] {
		t.Error("clean release must not mark proxy burnt")
	}
}

func TestPool_ReleaseBurnt(t *testing.T) {
	repo := newFakeRepo(&model.Proxy{ProxyID: 7, Host: "10.0.0.7", Port: 8080})
	pool := NewPool(repo, 30*time.Minute, zap.NewNop())

	reserved, err := pool.Reserve(context.Background())
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	pool.Release(reserved, true)
	if !repo.burnt[7] {
		t.Error("burnt release must mark proxy burnt")
	}
}

func TestPool_Exhausted(t *testing.T) {
	pool := NewPool(newFakeRepo(), 30*time.Minute, zap.NewNop())

	_, err := pool.Reserve(context.Background())
	if !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Reserve() error = %v, want ErrPoolExhausted", err)
	}
}

func TestPool_ReserveCancelledContext(t *testing.T) {
	repo := newFakeRepo(&model.Proxy{ProxyID: 1, Host: "10.0.0.1", Port: 8080})
	pool := NewPool(repo, 30*time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pool.Reserve(ctx); err == nil {
		t.Error("Reserve() should fail for cancelled context")
	}
	if len(repo.acquired) != 0 {
		t.Error("nothing should be acquired after cancelled reserve")
	}
}

func TestPool_ReleaseNil(t *testing.T) {
	pool := NewPool(newFakeRepo(), 30*time.Minute, zap.NewNop())

	// Не должно паниковать
	pool.Release(nil, false)
}
