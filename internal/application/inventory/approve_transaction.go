package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dehaep/Project-SupzG/internal/application/ports"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	stockrule "github.com/dehaep/Project-SupzG/internal/domain/inventory"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
	"github.com/dehaep/Project-SupzG/pkg/logger"
)

// ApproveTransactionUseCase motor de aprobación de transacciones.
// Todo ocurre en una sola transacción de BD: bloqueo de la fila de la transacción (SELECT FOR UPDATE),
// ajuste condicional del stock del item y cambio de estado. Commit o Rollback completo.
type ApproveTransactionUseCase struct {
	txRunner TxRunner
	cache    ports.ItemCache
	log      *logger.Logger
}

// NewApproveTransactionUseCase construye el motor. cache y log pueden ser nil.
func NewApproveTransactionUseCase(txRunner TxRunner, cache ports.ItemCache, log *logger.Logger) *ApproveTransactionUseCase {
	if cache == nil {
		cache = ports.NopItemCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ApproveTransactionUseCase{txRunner: txRunner, cache: cache, log: log.Named("approval")}
}

// approvalResult qué pasó con el stock dentro de la transacción de BD.
type approvalResult struct {
	applied bool
	itemID  string
	stock   int
}

// Approve lleva la transacción id al estado requested.
// pending -> approved aplica el efecto de stock una sola vez; approved -> approved no hace nada;
// approved -> pending es ErrInvalidTransition.
func (uc *ApproveTransactionUseCase) Approve(ctx context.Context, id, requested string) (*entity.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	if !entity.IsValidTransactionStatus(requested) {
		return nil, fmt.Errorf("%w: estado %q no soportado", domain.ErrInvalidInput, requested)
	}

	var (
		out *entity.Transaction
		res approvalResult
	)
	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		itemRepo repository.ItemRepository,
	) error {
		t, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
		}
		res, err = applyStatus(ctx, txRepo, itemRepo, t, requested)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		uc.logRejected(id, requested, err)
		return nil, err
	}
	uc.afterCommit(ctx, out, res)
	return out, nil
}

// applyStatus se ejecuta dentro de la transacción de BD con la fila de t bloqueada.
func applyStatus(
	ctx context.Context,
	txRepo repository.TransactionRepository,
	itemRepo repository.ItemRepository,
	t *entity.Transaction,
	requested string,
) (approvalResult, error) {
	var res approvalResult
	if t.IsApproved() && requested != entity.TransactionApproved {
		return res, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, t.Status, requested)
	}

	// re-aprobar solo reescribe el estado: el delta ya se aplicó
	if requested == entity.TransactionApproved && !t.IsApproved() {
		delta, err := stockrule.Delta(t.Type, t.Quantity)
		if err != nil {
			return res, err
		}
		if t.ItemID == "" {
			return res, fmt.Errorf("%w: la transacción no referencia un item", domain.ErrNotFound)
		}
		stock, err := itemRepo.AdjustStock(ctx, t.ItemID, delta)
		if err != nil {
			return res, err
		}
		res = approvalResult{applied: true, itemID: t.ItemID, stock: stock}
	}

	if err := txRepo.UpdateStatus(ctx, t.ID, requested); err != nil {
		return approvalResult{}, err
	}
	t.Status = requested
	t.UpdatedAt = time.Now()
	return res, nil
}

// afterCommit invalida la caché del item y registra el resultado.
func (uc *ApproveTransactionUseCase) afterCommit(ctx context.Context, t *entity.Transaction, res approvalResult) {
	if !res.applied {
		uc.log.Debug().Str("transaction_id", t.ID).Str("status", t.Status).Msg("sin efecto sobre el stock")
		return
	}
	uc.cache.Invalidate(ctx, res.itemID)
	uc.log.Info().
		Str("transaction_id", t.ID).
		Str("item_id", res.itemID).
		Str("type", t.Type).
		Int("quantity", t.Quantity).
		Int("stock", res.stock).
		Msg("transacción aprobada")
}

func (uc *ApproveTransactionUseCase) logRejected(id, requested string, err error) {
	ev := uc.log.Error
	switch {
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput):
		ev = uc.log.Warn
	}
	ev().Err(err).Str("transaction_id", id).Str("requested", requested).Msg("aprobación rechazada")
}
