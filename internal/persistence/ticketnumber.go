package persistence

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// TicketNumberGenerator issues sequential human-readable ticket numbers of
// the form T-YYYYMMDD-NNN using a per-day Redis counter. When Redis is
// unreachable it falls back to a random 3-digit suffix so intake keeps
// working; collisions are caught by the unique constraint on ticket_number.
type TicketNumberGenerator struct {
	redis  *Redis
	logger *zap.Logger
}

// NewTicketNumberGenerator builds a generator.
func NewTicketNumberGenerator(redis *Redis, logger *zap.Logger) *TicketNumberGenerator {
	return &TicketNumberGenerator{redis: redis, logger: logger}
}

// Next returns the next ticket number for today.
func (g *TicketNumberGenerator) Next(ctx context.Context) string {
	day := time.Now().Format("20060102")
	if g.redis != nil && g.redis.Client != nil {
		key := "ticket_seq:" + day
		seq, err := g.redis.Client.Incr(ctx, key).Result()
		if err == nil {
			if seq == 1 {
				// first ticket of the day sets the key's expiry
				g.redis.Client.Expire(ctx, key, 48*time.Hour)
			}
			return fmt.Sprintf("T-%s-%03d", day, seq)
		}
		g.logger.Warn("ticket sequence unavailable, using random fallback", zap.Error(err))
	}
	return fmt.Sprintf("T-%s-%03d", day, rand.Intn(900)+100)
}
