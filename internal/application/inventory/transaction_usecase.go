package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dehaep/Project-SupzG/internal/application/dto"
	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/access"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	stockrule "github.com/dehaep/Project-SupzG/internal/domain/inventory"
	"github.com/dehaep/Project-SupzG/internal/domain/repository"
)

// Actor identifica a quien ejecuta una operación (extraído del JWT).
type Actor struct {
	UserID   string
	Username string
	Role     string
}

// TransactionUseCase CRUD de transacciones. Las aprobaciones pasan siempre por el motor.
type TransactionUseCase struct {
	txRunner TxRunner
	txRepo   repository.TransactionRepository
	itemRepo repository.ItemRepository
	approver *ApproveTransactionUseCase
	now      func() time.Time
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(
	txRunner TxRunner,
	txRepo repository.TransactionRepository,
	itemRepo repository.ItemRepository,
	approver *ApproveTransactionUseCase,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRunner: txRunner,
		txRepo:   txRepo,
		itemRepo: itemRepo,
		approver: approver,
		now:      time.Now,
	}
}

// Create registra una transacción. Si el actor puede aprobar (manager) se crea y aprueba
// en la misma transacción de BD; si el stock no alcanza no se crea nada.
func (uc *TransactionUseCase) Create(ctx context.Context, actor Actor, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	itemID := strings.TrimSpace(in.ItemID)
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id es requerido", domain.ErrInvalidInput)
	}
	if _, err := stockrule.Delta(in.Type, in.Quantity); err != nil {
		return nil, err
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = uc.now().Format(entity.TransactionDateLayout)
	} else if _, err := time.Parse(entity.TransactionDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	submittedBy := strings.TrimSpace(in.SubmittedBy)
	if submittedBy == "" {
		submittedBy = actor.Username
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}

	now := uc.now()
	t := &entity.Transaction{
		ID:          uuid.New().String(),
		ItemID:      itemID,
		Quantity:    in.Quantity,
		Type:        in.Type,
		Date:        date,
		Status:      entity.TransactionPending,
		SubmittedBy: submittedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if !access.Allowed(actor.Role, access.ApproveTransaction) {
		if err := uc.txRepo.Create(ctx, t); err != nil {
			return nil, err
		}
		return toTransactionResponse(t, item), nil
	}

	var res approvalResult
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		itemRepo repository.ItemRepository,
	) error {
		if err := txRepo.Create(ctx, t); err != nil {
			return err
		}
		r, err := applyStatus(ctx, txRepo, itemRepo, t, entity.TransactionApproved)
		res = r
		return err
	})
	if err != nil {
		uc.approver.logRejected(t.ID, entity.TransactionApproved, err)
		return nil, err
	}
	uc.approver.afterCommit(ctx, t, res)
	item.Stock = res.stock
	return toTransactionResponse(t, item), nil
}

// UpdateStatus aplica el motor de aprobación y devuelve la transacción con el item actualizado.
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.TransactionResponse, error) {
	t, err := uc.approver.Approve(ctx, id, status)
	if err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetByID(ctx, t.ItemID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(t, item), nil
}

// GetByID obtiene una transacción con su item resuelto.
func (uc *TransactionUseCase) GetByID(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	t, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
	}
	item, err := uc.itemRepo.GetByID(ctx, t.ItemID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(t, item), nil
}

// List lista transacciones filtradas, más recientes primero.
func (uc *TransactionUseCase) List(ctx context.Context, in dto.TransactionFilterRequest) (*dto.TransactionListResponse, error) {
	if in.Status != "" && !entity.IsValidTransactionStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q no soportado", domain.ErrInvalidInput, in.Status)
	}
	in.Page.Normalize()
	list, err := uc.txRepo.List(ctx, repository.TransactionFilter{
		Status: in.Status,
		ItemID: in.ItemID,
		Date:   in.Date,
		Limit:  in.Page.Limit,
		Offset: in.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out, err := ResolveTransactions(ctx, uc.itemRepo, list)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: in.Page.Limit, Offset: in.Page.Offset, Count: len(out)},
	}, nil
}

// Delete elimina una transacción. No revierte stock de transacciones ya aprobadas.
func (uc *TransactionUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRepo.Delete(ctx, id)
}

// ResolveTransactions arma las respuestas resolviendo los items en una sola consulta.
func ResolveTransactions(ctx context.Context, itemRepo repository.ItemRepository, list []*entity.Transaction) ([]dto.TransactionResponse, error) {
	ids := make([]string, 0, len(list))
	for _, t := range list {
		if t.ItemID != "" {
			ids = append(ids, t.ItemID)
		}
	}
	items, err := itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTransactionResponse(t, items[t.ItemID]))
	}
	return out, nil
}

func toTransactionResponse(t *entity.Transaction, item *entity.Item) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:          t.ID,
		ItemID:      t.ItemID,
		Quantity:    t.Quantity,
		Type:        t.Type,
		Date:        t.Date,
		Status:      t.Status,
		SubmittedBy: t.SubmittedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if item != nil {
		resp.Item = &dto.ItemSummary{ID: item.ID, Name: item.Name, Stock: item.Stock}
	}
	return resp
}
