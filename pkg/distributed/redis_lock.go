package distributed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fisker/zadmin-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockUnavailable Redis 未启用时无法获取分布式锁
var ErrLockUnavailable = errors.New("redis lock unavailable")

const (
	unlockScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`
	renewScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
)

// RedisLock Redis 分布式锁
type RedisLock struct {
	client   *redis.Client
	key      string
	value    string
	expiry   time.Duration
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewRedisLock 创建 Redis 分布式锁，value 使用 UUID 防止误释放
func NewRedisLock(client *redis.Client, key string, expiry time.Duration) *RedisLock {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisLock{
		client:   client,
		key:      key,
		value:    uuid.New().String(),
		expiry:   expiry,
		ctx:      ctx,
		cancelFn: cancel,
	}
}

// TryLock 尝试获取锁（非阻塞），成功后自动续期直到 Unlock
func (l *RedisLock) TryLock() (bool, error) {
	if l.client == nil {
		return false, ErrLockUnavailable
	}

	ok, err := l.client.SetNX(l.ctx, l.key, l.value, l.expiry).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if ok {
		go l.autoRenew()
	}
	return ok, nil
}

// Lock 阻塞获取锁，每隔 retry 重试一次，直到成功或 ctx 结束
// 返回错误时锁对象随之失效，不需要再调用 Unlock
func (l *RedisLock) Lock(ctx context.Context, retry time.Duration) error {
	ticker := time.NewTicker(retry)
	defer ticker.Stop()

	for {
		ok, err := l.TryLock()
		if err != nil {
			l.cancelFn()
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			l.cancelFn()
			return fmt.Errorf("wait for lock %s: %w", l.key, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Unlock 释放锁，只有持有锁的实例才能释放
func (l *RedisLock) Unlock() error {
	defer l.cancelFn()
	if l.client == nil {
		return nil
	}

	// 不能用 l.ctx：解锁必须在取消续期之前完成
	result, err := l.client.Eval(context.Background(), unlockScript, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result == int64(0) {
		logger.Warnf("[RedisLock] lock %s was not held by this instance", l.key)
	}
	return nil
}

// autoRenew 每隔 expiry/3 续期一次
func (l *RedisLock) autoRenew() {
	ticker := time.NewTicker(l.expiry / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result, err := l.client.Eval(l.ctx, renewScript, []string{l.key}, l.value, l.expiry.Milliseconds()).Result()
			if err != nil {
				if l.ctx.Err() == nil {
					logger.Warnf("[RedisLock] failed to renew lock %s: %v", l.key, err)
				}
				return
			}
			if result == int64(0) {
				logger.Warnf("[RedisLock] lost lock %s, stopping auto-renew", l.key)
				return
			}
		case <-l.ctx.Done():
			return
		}
	}
}
