//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real vía testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dehaep/Project-SupzG/internal/application/inventory"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
	"github.com/dehaep/Project-SupzG/internal/infrastructure/postgres"
	"github.com/dehaep/Project-SupzG/pkg/config"
	"github.com/dehaep/Project-SupzG/pkg/logger"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("inventory"),
		tcpostgres.WithPassword("inventory"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, []string{"001_init"}, applied)
	return pool
}

func newItem(t *testing.T, repo *postgres.ItemRepo, stock int) *entity.Item {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	it := &entity.Item{
		ID: uuid.New().String(), Name: "Widget " + uuid.NewString()[:6], Stock: stock,
		Price: decimal.RequireFromString("12.50"), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), it))
	return it
}

func newPending(t *testing.T, repo *postgres.TransactionRepo, itemID, txType string, qty int) *entity.Transaction {
	t.Helper()
	now := time.Now().UTC()
	tx := &entity.Transaction{
		ID: uuid.New().String(), ItemID: itemID, Quantity: qty, Type: txType,
		Date: now.Format(entity.TransactionDateLayout), Status: entity.TransactionPending,
		SubmittedBy: "budi", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), tx))
	return tx
}

func TestIntegration_Postgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	items := postgres.NewItemRepository(pool)
	txs := postgres.NewTransactionRepository(pool)
	cats := postgres.NewCategoryRepository(pool)
	users := postgres.NewUserRepository(pool)
	approver := inventory.NewApproveTransactionUseCase(postgres.NewTxRunner(pool), nil, logger.Nop())

	t.Run("migraciones idempotentes", func(t *testing.T) {
		applied, err := postgres.Migrate(ctx, pool)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	t.Run("item ida y vuelta con precio decimal", func(t *testing.T) {
		it := newItem(t, items, 3)
		got, err := items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, it.Price.Equal(got.Price))
		assert.Equal(t, "", got.CategoryID)

		missing, err := items.GetByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("AdjustStock nunca deja stock negativo", func(t *testing.T) {
		it := newItem(t, items, 5)
		_, err := items.AdjustStock(ctx, it.ID, -6)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		stock, err := items.AdjustStock(ctx, it.ID, -5)
		require.NoError(t, err)
		assert.Equal(t, 0, stock)

		_, err = items.AdjustStock(ctx, uuid.NewString(), 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("nombre de categoría duplicado", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, cats.Create(ctx, &entity.Category{ID: uuid.NewString(), Name: "Alat", CreatedAt: now, UpdatedAt: now}))
		err := cats.Create(ctx, &entity.Category{ID: uuid.NewString(), Name: "ALAT", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("login por username o email", func(t *testing.T) {
		now := time.Now()
		u := &entity.User{
			ID: uuid.NewString(), Username: "sari", Email: "sari@gudang.id", PasswordHash: "x",
			Role: entity.RoleManager, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, users.Create(ctx, u))
		byEmail, err := users.FindByIdentifier(ctx, "SARI@gudang.id")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, u.ID, byEmail.ID)

		dup := *u
		dup.ID = uuid.NewString()
		assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrDuplicate)
	})

	t.Run("aprobación aplica el delta una sola vez", func(t *testing.T) {
		it := newItem(t, items, 10)
		tx := newPending(t, txs, it.ID, entity.TransactionInbound, 4)

		_, err := approver.Approve(ctx, tx.ID, entity.TransactionApproved)
		require.NoError(t, err)
		_, err = approver.Approve(ctx, tx.ID, entity.TransactionApproved)
		require.NoError(t, err)

		got, err := items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 14, got.Stock)
	})

	t.Run("salidas concurrentes: exactamente una gana", func(t *testing.T) {
		it := newItem(t, items, 10)
		const n = 8
		ids := make([]string, n)
		for i := range ids {
			ids[i] = newPending(t, txs, it.ID, entity.TransactionOutbound, 6).ID
		}

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ok, fail int
		)
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := approver.Approve(ctx, id, entity.TransactionApproved)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					ok++
				} else if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
					fail++
				}
			}(id)
		}
		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, n-1, fail)
		got, err := items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Stock)

		approved, err := txs.List(ctx, repository.TransactionFilter{ItemID: it.ID, Status: entity.TransactionApproved})
		require.NoError(t, err)
		assert.Len(t, approved, 1)
	})

	t.Run("aprobaciones concurrentes de la misma transacción", func(t *testing.T) {
		it := newItem(t, items, 0)
		tx := newPending(t, txs, it.ID, entity.TransactionInbound, 5)

		var wg sync.WaitGroup
		for i := 0; i < 6; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := approver.Approve(ctx, tx.ID, entity.TransactionApproved)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Stock)
	})

	t.Run("resumen del panel", func(t *testing.T) {
		counts, err := postgres.NewDashboardRepository(pool).Counts(ctx, repository.DashboardFilter{})
		require.NoError(t, err)
		assert.Positive(t, counts.Items)
		assert.Equal(t, 1, counts.ActiveUsers)
		assert.Positive(t, counts.Approved)
	})
}
