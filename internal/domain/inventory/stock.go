package inventory

import (
	"fmt"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
)

// Delta devuelve la variación de stock que produce una transacción al aprobarse.
// inbound suma la cantidad, outbound la resta.
func Delta(txType string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	switch txType {
	case entity.TransactionInbound:
		return quantity, nil
	case entity.TransactionOutbound:
		return -quantity, nil
	default:
		return 0, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, txType)
	}
}

