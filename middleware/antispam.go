package middleware

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/telebot.v3"
)

// cooldownStore remembers when each user last ran a command. The Redis
// backend lets the cooldown survive restarts; the in-memory one is the
// default for single-box deployments.
type cooldownStore interface {
	Last(userID int64) (time.Time, bool)
	Record(userID int64)
}

type memoryCooldowns struct {
	mu   sync.Mutex
	last map[int64]time.Time
}

func (m *memoryCooldowns) Last(userID int64) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.last[userID]
	return t, ok
}

func (m *memoryCooldowns) Record(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[userID] = time.Now()
}

func (m *memoryCooldowns) cleanup(olderThan time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for id, t := range m.last {
		if now.Sub(t) > olderThan {
			delete(m.last, id)
		}
	}
}

type redisCooldowns struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *redisCooldowns) key(userID int64) string {
	return fmt.Sprintf("cooldown:%d", userID)
}

func (r *redisCooldowns) Last(userID int64) (time.Time, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := r.client.Get(ctx, r.key(userID)).Int64()
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, val), true
}

func (r *redisCooldowns) Record(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Set(ctx, r.key(userID), time.Now().UnixNano(), r.ttl).Err(); err != nil {
		log.Printf("⚠️ Failed to record cooldown for %d: %v", userID, err)
	}
}

// AntiSpam throttles commands to one per delay, with escalating warnings
// and a temporary ban after five of them. Warnings and bans always live
// in memory; only the cooldown itself can be Redis-backed.
type AntiSpam struct {
	cooldowns cooldownStore
	delay     time.Duration

	mu       sync.Mutex
	warnings map[int64]int
	banUntil map[int64]time.Time

	exempt func(userID int64) bool
}

// NewAntiSpam builds the throttle. redisClient may be nil. exempt is
// checked first, so admins are never throttled.
func NewAntiSpam(redisClient *redis.Client, exempt func(userID int64) bool) *AntiSpam {
	var store cooldownStore
	if redisClient != nil {
		store = &redisCooldowns{client: redisClient, ttl: 10 * time.Minute}
	} else {
		mem := &memoryCooldowns{last: make(map[int64]time.Time)}
		go func() {
			for range time.Tick(5 * time.Minute) {
				mem.cleanup(10 * time.Minute)
			}
		}()
		store = mem
	}

	return &AntiSpam{
		cooldowns: store,
		delay:     2 * time.Second,
		warnings:  make(map[int64]int),
		banUntil:  make(map[int64]time.Time),
		exempt:    exempt,
	}
}

// Middleware is the telebot wrapper.
func (a *AntiSpam) Middleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		userID := c.Sender().ID

		if a.exempt != nil && a.exempt(userID) {
			return next(c)
		}

		if until, banned := a.isBanned(userID); banned {
			remaining := int(time.Until(until).Seconds()) + 1
			return c.Send(fmt.Sprintf(
				"🚫 Bạn bị tạm khóa vì spam. Thử lại sau %d giây.", remaining))
		}

		if !strings.HasPrefix(c.Text(), "/") {
			return next(c)
		}

		if last, ok := a.cooldowns.Last(userID); ok {
			if wait := a.delay - time.Since(last); wait > 0 {
				warnings := a.addWarning(userID)
				if warnings >= 5 {
					a.ban(userID, 5*time.Minute)
					log.Printf("🚫 User %d banned for 5 minutes (spam)", userID)
					return c.Send("🚫 Bạn spam quá nhiều, tài khoản bị khóa 5 phút.")
				}
				return c.Send(fmt.Sprintf(
					"⏰ Chậm lại! Chờ %d giây giữa các lệnh. Cảnh báo: %d/5",
					int(wait.Seconds())+1, warnings))
			}
		}

		a.resetWarnings(userID)
		a.cooldowns.Record(userID)
		return next(c)
	}
}

func (a *AntiSpam) isBanned(userID int64) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	until, ok := a.banUntil[userID]
	if !ok {
		return time.Time{}, false
	}
	if time.Now().After(until) {
		delete(a.banUntil, userID)
		return time.Time{}, false
	}
	return until, true
}

func (a *AntiSpam) ban(userID int64, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.banUntil[userID] = time.Now().Add(d)
	delete(a.warnings, userID)
}

func (a *AntiSpam) addWarning(userID int64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings[userID]++
	return a.warnings[userID]
}

func (a *AntiSpam) resetWarnings(userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.warnings, userID)
}
