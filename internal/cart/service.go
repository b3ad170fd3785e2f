package cart

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/tiendalink/backend/pkg/errors"
)

type cartKeyer interface {
	CartKey(token string) string
}

// Service hands out cart stores keyed by an opaque shopper token.
type Service struct {
	kv    KV
	keyer cartKeyer
}

// NewService wires cart storage and the key namespace.
func NewService(kv KV, keyer cartKeyer) *Service {
	return &Service{kv: kv, keyer: keyer}
}

// Open loads the cart for the given token, minting a fresh token when
// none was supplied. The returned token must be echoed back to the
// shopper so follow-up requests hit the same cart.
func (s *Service) Open(ctx context.Context, token string) (*Store, string, error) {
	if token == "" {
		token = uuid.NewString()
	} else if _, err := uuid.Parse(token); err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cart token")
	}

	store, err := Open(ctx, s.kv, s.keyer.CartKey(token))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return store, token, nil
}

// Discard removes the persisted snapshot for a token. Used after an
// order is submitted from a cart that will not be reopened.
func (s *Service) Discard(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Del(ctx, s.keyer.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discarding cart")
	}
	return nil
}
