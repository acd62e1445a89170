package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/kv"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Store persists one cart per session under a single key. Every mutator
// writes the full cart state synchronously before returning, so the
// persisted copy is never behind the in-memory one.
type Store struct {
	kv     kv.Store
	logger *zap.Logger
}

// NewStore creates a cart store over the given key-value backend.
func NewStore(backend kv.Store) *Store {
	return &Store{
		kv:     backend,
		logger: util.GetLogger(),
	}
}

func cartKey(sessionID string) string {
	return "cart_v1:" + sessionID
}

// Load restores the session's cart. A missing or corrupt persisted value
// yields an empty cart, never an error.
func (s *Store) Load(ctx context.Context, sessionID string) *Cart {
	c := &Cart{Items: []LineItem{}}

	raw, ok, err := s.kv.Get(ctx, cartKey(sessionID))
	if err != nil {
		s.logger.Warn("Cart read failed, starting empty",
			zap.String("session", sessionID), zap.Error(err))
		return c
	}
	if !ok {
		return c
	}

	if err := json.Unmarshal([]byte(raw), c); err != nil {
		util.CartRestoreFailuresTotal.Inc()
		s.logger.Warn("Persisted cart is corrupt, starting empty",
			zap.String("session", sessionID), zap.Error(err))
		return &Cart{Items: []LineItem{}}
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	return c
}

// Add looks the product up in the current catalog snapshot and appends or
// increments a line with its price, name and image captured at add time.
// An id absent from the catalog is a silent no-op: catalog and cart
// lifetimes are decoupled.
func (s *Store) Add(ctx context.Context, sessionID string, snap *catalog.Catalog, productID string, quantity int) (*Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartStore.Add")
	defer span.End()

	c := s.Load(ctx, sessionID)

	p := snap.Find(productID)
	if p == nil {
		util.CartLookupMissesTotal.Inc()
		s.logger.Debug("Cart add for unknown product", zap.String("product_id", productID))
		return c, nil
	}

	if quantity < 1 {
		quantity = 1
	}
	c.add(LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		SKU:       p.SKU,
		Image:     p.FirstImage(),
		Quantity:  quantity,
	})

	if err := s.persist(ctx, sessionID, c); err != nil {
		return nil, err
	}
	util.CartOperationsTotal.WithLabelValues("add").Inc()
	return c, nil
}

// ChangeQuantity applies a delta to a line; a result at or below zero
// removes the line entirely.
func (s *Store) ChangeQuantity(ctx context.Context, sessionID, productID string, delta int) (*Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartStore.ChangeQuantity")
	defer span.End()

	c := s.Load(ctx, sessionID)
	c.changeQuantity(productID, delta)

	if err := s.persist(ctx, sessionID, c); err != nil {
		return nil, err
	}
	util.CartOperationsTotal.WithLabelValues("change_quantity").Inc()
	return c, nil
}

// Remove deletes a line by product id.
func (s *Store) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartStore.Remove")
	defer span.End()

	c := s.Load(ctx, sessionID)
	c.remove(productID)

	if err := s.persist(ctx, sessionID, c); err != nil {
		return nil, err
	}
	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	return c, nil
}

// Clear empties the session's cart, used after a completed checkout. The
// persisted key is deleted rather than overwritten with an empty cart.
func (s *Store) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	if err := s.kv.Delete(ctx, cartKey(sessionID)); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	util.CartOperationsTotal.WithLabelValues("clear").Inc()
	return &Cart{Items: []LineItem{}}, nil
}

func (s *Store) persist(ctx context.Context, sessionID string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, cartKey(sessionID), string(raw)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
