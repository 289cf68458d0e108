package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/dehaep/Project-SupzG/internal/application/ports"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/pkg/logger"
)

var _ ports.ItemCache = (*ItemCache)(nil)

const (
	itemKeyPrefix  = "item:"
	genKeyPrefix   = "item-gen:"
	DefaultItemTTL = 5 * time.Minute
	// genTTL debe superar con holgura cualquier ventana lectura-escritura de un request.
	genTTL    = 24 * time.Hour
	opTimeout = 500 * time.Millisecond
)

// errStaleGen la generación cambió entre Get y Set.
var errStaleGen = errors.New("generación de caché obsoleta")

// ItemCache guarda el item crudo como JSON bajo item:<id> y su generación bajo item-gen:<id>.
// Best effort: cualquier error de Redis se registra y se trata como miss.
type ItemCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewItemCache construye la caché. ttl <= 0 usa DefaultItemTTL.
func NewItemCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *ItemCache {
	if ttl <= 0 {
		ttl = DefaultItemTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ItemCache{rdb: rdb, ttl: ttl, log: log.Named("item_cache")}
}

func itemKey(id string) string { return itemKeyPrefix + id }
func genKey(id string) string  { return genKeyPrefix + id }

// cachedItem forma serializada de entity.Item.
type cachedItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"category_id"`
	LocationID  string          `json:"location_id"`
	Photo       string          `json:"photo"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toCached(it *entity.Item) cachedItem {
	return cachedItem{
		ID: it.ID, Name: it.Name, Description: it.Description, Stock: it.Stock,
		CategoryID: it.CategoryID, LocationID: it.LocationID, Photo: it.Photo,
		Price: it.Price, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
	}
}

func (ci cachedItem) entity() *entity.Item {
	return &entity.Item{
		ID: ci.ID, Name: ci.Name, Description: ci.Description, Stock: ci.Stock,
		CategoryID: ci.CategoryID, LocationID: ci.LocationID, Photo: ci.Photo,
		Price: ci.Price, CreatedAt: ci.CreatedAt, UpdatedAt: ci.UpdatedAt,
	}
}

// Get devuelve el item cacheado. En un miss devuelve la generación actual para Set.
func (c *ItemCache) Get(ctx context.Context, id string) (*entity.Item, int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := c.rdb.Pipeline()
	itemCmd := pipe.Get(ctx, itemKey(id))
	genCmd := pipe.Get(ctx, genKey(id))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("item_id", id).Msg("lectura de caché fallida")
		return nil, ports.NoCacheGen, false
	}

	gen, err := genCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("item_id", id).Msg("generación de caché ilegible")
		return nil, ports.NoCacheGen, false
	}
	b, err := itemCmd.Bytes()
	if err != nil {
		return nil, gen, false
	}
	var ci cachedItem
	if err := json.Unmarshal(b, &ci); err != nil {
		c.log.Warn().Err(err).Str("item_id", id).Msg("entrada de caché corrupta")
		return nil, gen, false
	}
	return ci.entity(), gen, true
}

// Set guarda el item solo si la generación no cambió desde el Get (WATCH sobre item-gen:<id>).
func (c *ItemCache) Set(ctx context.Context, item *entity.Item, gen int64) {
	if item == nil || gen < 0 {
		return
	}
	b, err := json.Marshal(toCached(item))
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	gk := genKey(item.ID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGen
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, itemKey(item.ID), b, c.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGen), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Str("item_id", item.ID).Msg("escritura de caché descartada por invalidación concurrente")
	default:
		c.log.Warn().Err(err).Str("item_id", item.ID).Msg("escritura de caché fallida")
	}
}

// Invalidate elimina las entradas e incrementa la generación de los items indicados.
func (c *ItemCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	// independiente de la cancelación del request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
	defer cancel()
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			p.Incr(ctx, genKey(id))
			p.Expire(ctx, genKey(id), genTTL)
			p.Del(ctx, itemKey(id))
		}
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Strs("item_ids", ids).Msg("invalidación de caché fallida")
	}
}
