package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tiendalink/backend/pkg/errors"
)

type staticKeyer struct{}

func (staticKeyer) CartKey(token string) string { return "tl:cart:" + token }

func TestServiceOpenMintsTokenWhenMissing(t *testing.T) {
	svc := NewService(NewMemoryKV(), staticKeyer{})

	store, token, err := svc.Open(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, store)

	_, parseErr := uuid.Parse(token)
	assert.NoError(t, parseErr)
	assert.Empty(t, store.Items())
}

func TestServiceOpenReturnsSameCartForToken(t *testing.T) {
	svc := NewService(NewMemoryKV(), staticKeyer{})
	ctx := context.Background()

	store, token, err := svc.Open(ctx, "")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, LineItem{ProductID: "p1", Title: "Café molido", UnitPrice: decimal.NewFromInt(50)}))

	reopened, sameToken, err := svc.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, sameToken)
	require.Len(t, reopened.Items(), 1)
}

func TestServiceOpenRejectsMalformedToken(t *testing.T) {
	svc := NewService(NewMemoryKV(), staticKeyer{})

	_, _, err := svc.Open(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceDiscardRemovesSnapshot(t *testing.T) {
	kv := NewMemoryKV()
	svc := NewService(kv, staticKeyer{})
	ctx := context.Background()

	store, token, err := svc.Open(ctx, "")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, LineItem{ProductID: "p1", Title: "Café molido", UnitPrice: decimal.NewFromInt(50)}))

	require.NoError(t, svc.Discard(ctx, token))

	reopened, _, err := svc.Open(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, reopened.Items())
}
