package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

var (
	// ErrMiss возвращается, когда расписания нет в кэше
	ErrMiss = errors.New("schedule.cache: miss")

	// ErrCache возвращается при ошибке обращения к Redis
	ErrCache = errors.New("schedule.cache: redis error")

	// ErrCodec возвращается при ошибке (де)сериализации расписания
	ErrCodec = errors.New("schedule.cache: codec error")
)

// Key идентифицирует закэшированное окно расписания салона
type Key struct {
	ShopID uuid.UUID
	From   time.Time
	To     time.Time
}

// RedisCache кэш расписаний в Redis.
//
// У каждого салона есть счётчик версии. Запись кэша живёт под ключом текущей версии,
// Invalidate увеличивает счётчик, после чего старые записи больше не читаются
// и истекают по TTL. Версию нужно читать до загрузки данных из БД и передавать в Set,
// тогда данные, загруженные до инвалидации, не попадут под новую версию.
type RedisCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisCache создает кэш расписаний
func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "barber:schedule"}
}

// Get возвращает расписание и текущую версию салона.
// При промахе возвращается ErrMiss вместе с версией, которую нужно передать в Set.
func (c *RedisCache) Get(ctx context.Context, key Key) (*domain.ShopSchedule, int64, error) {
	version, err := c.version(ctx, key.ShopID)
	if err != nil {
		return nil, 0, err
	}

	data, err := c.rdb.Get(ctx, c.entryKey(key, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, ErrMiss
	}
	if err != nil {
		return nil, version, fmt.Errorf("%w: get entry: %v", ErrCache, err)
	}

	sched, err := decode(data)
	if err != nil {
		return nil, version, err
	}

	return sched, version, nil
}

// Set сохраняет расписание под версией, прочитанной в Get
func (c *RedisCache) Set(ctx context.Context, key Key, version int64, sched *domain.ShopSchedule) error {
	data, err := encode(sched)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, c.entryKey(key, version), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set entry: %v", ErrCache, err)
	}

	return nil
}

// Invalidate делает все закэшированные окна салона недоступными
func (c *RedisCache) Invalidate(ctx context.Context, shopID uuid.UUID) error {
	if err := c.rdb.Incr(ctx, c.versionKey(shopID)).Err(); err != nil {
		return fmt.Errorf("%w: bump version: %v", ErrCache, err)
	}
	return nil
}

func (c *RedisCache) version(ctx context.Context, shopID uuid.UUID) (int64, error) {
	raw, err := c.rdb.Get(ctx, c.versionKey(shopID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get version: %v", ErrCache, err)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse version %q: %v", ErrCache, raw, err)
	}

	return v, nil
}

func (c *RedisCache) versionKey(shopID uuid.UUID) string {
	return c.prefix + ":ver:" + shopID.String()
}

func (c *RedisCache) entryKey(key Key, version int64) string {
	return fmt.Sprintf("%s:%s:v%d:%d:%d", c.prefix, key.ShopID, version, key.From.Unix(), key.To.Unix())
}

// NoopCache используется, когда Redis выключен: всегда промах
type NoopCache struct{}

func (NoopCache) Get(context.Context, Key) (*domain.ShopSchedule, int64, error) {
	return nil, 0, ErrMiss
}

func (NoopCache) Set(context.Context, Key, int64, *domain.ShopSchedule) error {
	return nil
}

func (NoopCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}

type cachedChair struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"isActive"`
}

type cachedInterval struct {
	ChairID uuid.UUID `json:"chairId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type cachedSchedule struct {
	ShopID        uuid.UUID            `json:"shopId"`
	OwnerID       uuid.UUID            `json:"ownerId"`
	Name          string               `json:"name"`
	BusinessHours domain.BusinessHours `json:"businessHours"`
	Chairs        []cachedChair        `json:"chairs"`
	Booked        []cachedInterval     `json:"booked"`
	From          time.Time            `json:"from"`
	To            time.Time            `json:"to"`
}

func encode(s *domain.ShopSchedule) ([]byte, error) {
	c := cachedSchedule{
		ShopID:        s.Shop.ID,
		OwnerID:       s.Shop.OwnerID,
		Name:          s.Shop.Name,
		BusinessHours: s.Shop.BusinessHours,
		Chairs:        make([]cachedChair, 0, len(s.Chairs)),
		Booked:        make([]cachedInterval, 0, len(s.Booked)),
		From:          s.From,
		To:            s.To,
	}
	for _, ch := range s.Chairs {
		c.Chairs = append(c.Chairs, cachedChair{ID: ch.ID, Name: ch.Name, IsActive: ch.IsActive})
	}
	for _, b := range s.Booked {
		c.Booked = append(c.Booked, cachedInterval{ChairID: b.ChairID, Start: b.Start, End: b.End})
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return data, nil
}

func decode(data []byte) (*domain.ShopSchedule, error) {
	var c cachedSchedule
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	s := &domain.ShopSchedule{
		Shop: &domain.Shop{
			ID:            c.ShopID,
			OwnerID:       c.OwnerID,
			Name:          c.Name,
			BusinessHours: c.BusinessHours,
		},
		Chairs: make([]*domain.Chair, 0, len(c.Chairs)),
		Booked: make([]domain.BookedInterval, 0, len(c.Booked)),
		From:   c.From,
		To:     c.To,
	}
	for _, ch := range c.Chairs {
		s.Chairs = append(s.Chairs, &domain.Chair{ID: ch.ID, ShopID: c.ShopID, Name: ch.Name, IsActive: ch.IsActive})
	}
	for _, b := range c.Booked {
		s.Booked = append(s.Booked, domain.BookedInterval{ChairID: b.ChairID, Start: b.Start, End: b.End})
	}

	return s, nil
}
