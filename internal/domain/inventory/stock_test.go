package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dehaep/Project-SupzG/internal/domain"
	"github.com/dehaep/Project-SupzG/internal/domain/entity"
	"github.com/dehaep/Project-SupzG/internal/domain/inventory"
)

func TestDelta_InboundSuma(t *testing.T) {
	d, err := inventory.Delta(entity.TransactionInbound, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, d)
}

func TestDelta_OutboundResta(t *testing.T) {
	d, err := inventory.Delta(entity.TransactionOutbound, 7)
	require.NoError(t, err)
	assert.Equal(t, -7, d)
}

func TestDelta_CantidadNoPositiva(t *testing.T) {
	for _, q := range []int{0, -3} {
		_, err := inventory.Delta(entity.TransactionInbound, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe rechazarse", q)
	}
}

func TestDelta_TipoDesconocido(t *testing.T) {
	_, err := inventory.Delta("transfer", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

