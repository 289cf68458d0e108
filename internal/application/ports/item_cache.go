package ports

import (
	"context"

	"github.com/dehaep/Project-SupzG/internal/domain/entity"
)

// ItemCache puerto de salida para la caché de lecturas de items.
// Guarda el item crudo: categoría y ubicación se resuelven en cada lectura.
// Los fallos de la caché nunca deben propagarse: la base de datos es la fuente de verdad.
//
// Cada item tiene una generación que Invalidate incrementa. Get devuelve la generación
// vigente en un miss y Set solo escribe si sigue siendo la misma, de modo que una
// lectura de la base que perdió la carrera contra una invalidación no repuebla la caché.
type ItemCache interface {
	Get(ctx context.Context, id string) (item *entity.Item, gen int64, ok bool)
	Set(ctx context.Context, item *entity.Item, gen int64)
	Invalidate(ctx context.Context, ids ...string)
}

// NoCacheGen generación que devuelve Get cuando no puede leerla; Set la ignora.
const NoCacheGen int64 = -1

// NopItemCache caché deshabilitada (REDIS_URL vacío o tests).
type NopItemCache struct{}

func (NopItemCache) Get(context.Context, string) (*entity.Item, int64, bool) {
	return nil, NoCacheGen, false
}
func (NopItemCache) Set(context.Context, *entity.Item, int64) {}
func (NopItemCache) Invalidate(context.Context, ...string)    {}
