package counters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCounter ошибка чтения или изменения счётчика
	ErrCounter = errors.New("counters: redis error")
)

const defaultKeyPrefix = "courtbook"

// UserBookingCounter денормализованный счётчик подтверждённых бронирований пользователя
// Значение рекомендательное: источник истины всегда таблица bookings
type UserBookingCounter struct {
	client redis.Cmdable
	prefix string
}

// NewUserBookingCounter создает счётчик поверх Redis
func NewUserBookingCounter(client redis.Cmdable, prefix string) *UserBookingCounter {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &UserBookingCounter{client: client, prefix: prefix}
}

// Key ключ счётчика пользователя: <prefix>:user:<id>:confirmed_bookings
func (c *UserBookingCounter) Key(userID int64) string {
	return fmt.Sprintf("%s:user:%d:confirmed_bookings", c.prefix, userID)
}

// Adjust изменяет счётчик на delta (INCRBY)
func (c *UserBookingCounter) Adjust(ctx context.Context, userID int64, delta int64) error {
	if delta == 0 {
		return nil
	}
	if err := c.client.IncrBy(ctx, c.Key(userID), delta).Err(); err != nil {
		return fmt.Errorf("%w: adjust user_id=%d by %d: %v", ErrCounter, userID, delta, err)
	}
	return nil
}

// Get возвращает текущее значение счётчика; отсутствующий ключ считается нулём
func (c *UserBookingCounter) Get(ctx context.Context, userID int64) (int64, error) {
	raw, err := c.client.Get(ctx, c.Key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get user_id=%d: %v", ErrCounter, userID, err)
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: get user_id=%d: non-integer value %q", ErrCounter, userID, raw)
	}
	return value, nil
}

// Reset перезаписывает счётчик значением, пересчитанным по таблице bookings
func (c *UserBookingCounter) Reset(ctx context.Context, userID int64, value int64) error {
	if err := c.client.Set(ctx, c.Key(userID), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: reset user_id=%d: %v", ErrCounter, userID, err)
	}
	return nil
}

// NoopCounter используется, когда Redis отключён в конфигурации
type NoopCounter struct{}

// Adjust ничего не делает
func (NoopCounter) Adjust(context.Context, int64, int64) error { return nil }

// Get всегда возвращает ноль
func (NoopCounter) Get(context.Context, int64) (int64, error) { return 0, nil }

// Reset ничего не делает
func (NoopCounter) Reset(context.Context, int64, int64) error { return nil }

// Options параметры подключения к Redis
type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Connect создает клиент Redis и проверяет соединение
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrCounter, opts.Addr, err)
	}
	return client, nil
}
