package distributed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const lockRetryInterval = 50 * time.Millisecond

// StructureLock 树结构写锁
// 进程内用容量为 1 的信号量串行化；配置了 Redis 时再叠加一把分布式锁，
// 使多实例部署下的子树改写也互斥
type StructureLock struct {
	sem    chan struct{}
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewStructureLock client 为 nil 时只使用进程内锁
func NewStructureLock(client *redis.Client, key string, ttl time.Duration) *StructureLock {
	return &StructureLock{
		sem:    make(chan struct{}, 1),
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Acquire 获取锁，返回释放函数
func (l *StructureLock) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for structure lock: %w", ctx.Err())
	}

	if l.client == nil {
		return func() { <-l.sem }, nil
	}

	rl := NewRedisLock(l.client, l.key, l.ttl)
	if err := rl.Lock(ctx, lockRetryInterval); err != nil {
		<-l.sem
		return nil, err
	}
	return func() {
		_ = rl.Unlock()
		<-l.sem
	}, nil
}
