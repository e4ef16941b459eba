package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-queue/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrCapacityFull is returned when no slot remains for the requested date
var ErrCapacityFull = errors.New("no slot remains for the requested date")

// reserveSlotScript atomically claims one slot for a date and draws the next
// queue number. Runs as a single Lua script inside Redis, so two concurrent
// bookings can never read the same count or share a number.
//
// KEYS[1] = booked counter, KEYS[2] = queue number counter
// ARGV[1] = max slots per day, ARGV[2] = key TTL seconds
//
// Returns -1 when the date is full, otherwise the assigned queue number.
var reserveSlotScript = redis.NewScript(`
	local booked = redis.call('INCR', KEYS[1])
	if booked > tonumber(ARGV[1]) then
		redis.call('DECR', KEYS[1])
		return -1
	end
	local number = redis.call('INCR', KEYS[2])
	redis.call('EXPIRE', KEYS[1], ARGV[2])
	redis.call('EXPIRE', KEYS[2], ARGV[2])
	return number
`)

const (
	bookedKeyPrefix = "queue:booked:"
	numberKeyPrefix = "queue:number:"
)

// SlotReserver serializes queue admission per appointment date. The usecases
// depend on this interface so tests can swap in an in-memory implementation.
type SlotReserver interface {
	// Reserve claims a slot for the date and returns the assigned queue
	// number, or ErrCapacityFull.
	Reserve(ctx context.Context, date string, maxSlots int) (int, error)
	// Restore releases a slot when a booking is cancelled. Queue numbers
	// are never given back.
	Restore(ctx context.Context, date string) error
}

// QueueSlotService keeps per-date booked and queue-number counters in Redis.
// The counters, not the relational store, are the serialization point for
// admission: the count-then-insert race lives entirely inside one Lua call.
// The unique index on (appointment_date, queue_number) backstops a counter
// lost to Redis eviction.
type QueueSlotService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewQueueSlotService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *QueueSlotService {
	return &QueueSlotService{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

func (s *QueueSlotService) Reserve(ctx context.Context, date string, maxSlots int) (int, error) {
	bookedKey := bookedKeyPrefix + date
	numberKey := numberKeyPrefix + date

	result, err := reserveSlotScript.Run(ctx, s.redisClient,
		[]string{bookedKey, numberKey},
		maxSlots, int(keyTTL(date).Seconds()),
	).Int()
	if err != nil {
		s.log.Warnf("Failed slot reservation script for date %s: %+v", date, err)
		return 0, fmt.Errorf("reserve slot for %s: %w", date, err)
	}

	if result == -1 {
		return 0, ErrCapacityFull
	}

	s.log.Debugf("Reserved slot for %s: queue_number=%d", date, result)
	return result, nil
}

func (s *QueueSlotService) Restore(ctx context.Context, date string) error {
	bookedKey := bookedKeyPrefix + date

	if err := s.redisClient.Decr(ctx, bookedKey).Err(); err != nil {
		s.log.Warnf("Failed to restore slot for date %s: %+v", date, err)
		return fmt.Errorf("restore slot for %s: %w", date, err)
	}

	s.log.Debugf("Restored slot for %s", date)
	return nil
}

// SyncDate rebuilds both counters for a single date from the database.
// Counters only drift when Redis loses keys, so this runs at startup.
func (s *QueueSlotService) SyncDate(ctx context.Context, date string) error {
	var data struct {
		BookedCount    int64
		MaxQueueNumber int
	}

	err := s.db.WithContext(ctx).Model(&entity.Queue{}).
		Select("COUNT(CASE WHEN status != ? THEN 1 END) as booked_count, COALESCE(MAX(queue_number), 0) as max_queue_number",
			entity.QueueStatusCancelled).
		Where("appointment_date = ?", date).
		Scan(&data).Error
	if err != nil {
		return fmt.Errorf("query queue counters for %s: %w", date, err)
	}

	ttl := keyTTL(date)
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, bookedKeyPrefix+date, data.BookedCount, ttl)
	pipe.Set(ctx, numberKeyPrefix+date, data.MaxQueueNumber, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("sync counters for %s: %w", date, err)
	}

	s.log.Debugf("Synced date %s: booked=%d, max_number=%d", date, data.BookedCount, data.MaxQueueNumber)
	return nil
}

// SyncOnStartup rebuilds counters for every date from today onward that has
// at least one queue entry. Should run before accepting traffic.
func (s *QueueSlotService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting queue counter re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := time.Now().Format(entity.DateFormat)

	var dates []string
	err := s.db.WithContext(ctx).Model(&entity.Queue{}).
		Distinct("appointment_date").
		Where("appointment_date >= ?", today).
		Order("appointment_date").
		Pluck("appointment_date", &dates).Error
	if err != nil {
		return fmt.Errorf("query active dates: %w", err)
	}

	for _, date := range dates {
		if err := s.SyncDate(ctx, date); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Queue counter re-sync completed: %d dates in %v", len(dates), time.Since(startTime))
	return nil
}

// keyTTL keeps date counters alive until the day after the appointment.
func keyTTL(date string) time.Duration {
	day, err := time.Parse(entity.DateFormat, date)
	if err != nil {
		return 24 * time.Hour
	}
	ttl := time.Until(day.AddDate(0, 0, 2))
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
