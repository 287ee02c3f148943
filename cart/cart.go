// Package cart maintains the authenticated user's item list. Every
// mutation recomputes the aggregate totals, persists the cart under a
// per-user storage key and broadcasts fresh cart and summary snapshots.
//
// The engine loads nothing on its own at construction: cart loading is a
// downstream reaction to a settled authentication state delivered on the
// session store's auth channel.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/electrostore/storefront/broadcast"
	"github.com/electrostore/storefront/entities"
	"github.com/electrostore/storefront/kv"
	"github.com/electrostore/storefront/session"
)

const cartKeyPrefix = "electrostore:cart:"

// Response is the structured result of every cart command; the message is
// suitable for direct display and expected failures never surface as errors.
type Response struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Cart    *entities.Cart `json:"cart,omitempty"`
}

type Engine struct {
	store    kv.Store
	catalog  entities.CatalogProvider
	sessions *session.Store
	logger   *zap.Logger
	now      func() time.Time

	// mu serializes all mutations on the in-memory cart; there is never
	// more than one in-flight mutation per engine.
	mu   sync.Mutex
	cart *entities.Cart

	cartUpdates    *broadcast.Broadcaster[*entities.Cart]
	summaryUpdates *broadcast.Broadcaster[entities.CartSummary]
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(store kv.Store, catalog entities.CatalogProvider, sessions *session.Store, opts ...Option) *Engine {
	ans := Engine{
		store:          store,
		catalog:        catalog,
		sessions:       sessions,
		logger:         zap.NewNop(),
		now:            time.Now,
		cartUpdates:    broadcast.New[*entities.Cart](),
		summaryUpdates: broadcast.New[entities.CartSummary](),
	}

	for _, opt := range opts {
		opt(&ans)
	}

	return &ans
}

// Run reacts to authentication transitions until ctx is done: on
// authenticated it loads (or creates) the user's persisted cart, on
// unauthenticated it discards the in-memory cart without deleting the
// persisted copy.
func (e *Engine) Run(ctx context.Context) {
	authCh, cancel := e.sessions.SubscribeAuth()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case authenticated, ok := <-authCh:
			if !ok {
				return
			}

			e.onAuthChange(ctx, authenticated)
		}
	}
}

// AddItem merges on (productID, variant) or resolves the product and
// appends a new line with a price snapshot.
func (e *Engine) AddItem(ctx context.Context, productID string, quantity int, variant string) Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	user := e.sessions.CurrentUser()
	if user == nil {
		return Response{Message: "you must sign in to add products to the cart"}
	}

	if quantity < 1 {
		return Response{Message: "quantity must be at least 1"}
	}

	if e.cart == nil {
		e.loadOrCreate(ctx, user.ID)
	}

	merged := false

	for i := range e.cart.Items {
		if e.cart.Items[i].Product.ID == productID && e.cart.Items[i].Variant == variant {
			e.cart.Items[i].Quantity += quantity
			merged = true

			break
		}
	}

	if !merged {
		product, err := e.catalog.ProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, entities.ErrProductNotFound) {
				return Response{Message: entities.ErrProductNotFound.Error()}
			}

			e.logger.Error("product lookup failed", zap.String("product_id", productID), zap.Error(err))

			return Response{Message: "failed to add product to the cart"}
		}

		e.cart.Items = append(e.cart.Items, entities.CartItem{
			ID:          uuid.New().String(),
			Product:     product,
			Quantity:    quantity,
			Variant:     variant,
			AddedAt:     e.now(),
			PriceAtTime: product.Price,
		})
	}

	e.commit(ctx)

	return Response{Success: true, Message: "product added to the cart", Cart: e.snapshot()}
}

// RemoveItem deletes the matching line.
func (e *Engine) RemoveItem(ctx context.Context, itemID string) Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.removeItemLocked(ctx, itemID)
}

// UpdateQuantity sets the line's quantity. Zero or negative quantities
// mean removal, not an error.
func (e *Engine) UpdateQuantity(ctx context.Context, itemID string, quantity int) Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		return e.removeItemLocked(ctx, itemID)
	}

	if e.cart == nil {
		return Response{Message: entities.ErrItemNotFound.Error()}
	}

	for i := range e.cart.Items {
		if e.cart.Items[i].ID == itemID {
			e.cart.Items[i].Quantity = quantity
			e.commit(ctx)

			return Response{Success: true, Message: "quantity updated", Cart: e.snapshot()}
		}
	}

	return Response{Message: entities.ErrItemNotFound.Error()}
}

// Clear replaces the cart with a fresh empty cart for the current user.
func (e *Engine) Clear(ctx context.Context) Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	user := e.sessions.CurrentUser()
	if user == nil {
		return Response{Message: "you must sign in to clear the cart"}
	}

	e.cart = e.emptyCart(user.ID)
	e.commit(ctx)

	return Response{Success: true, Message: "cart cleared", Cart: e.snapshot()}
}

// Current returns a deep-enough copy of the in-memory cart, nil when no
// user is signed in.
func (e *Engine) Current() *entities.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshot()
}

func (e *Engine) Summary() entities.CartSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	return summarize(e.cart)
}

func (e *Engine) SubscribeCart() (<-chan *entities.Cart, func()) {
	return e.cartUpdates.Subscribe()
}

func (e *Engine) SubscribeSummary() (<-chan entities.CartSummary, func()) {
	return e.summaryUpdates.Subscribe()
}

func (e *Engine) removeItemLocked(ctx context.Context, itemID string) Response {
	if e.cart == nil {
		return Response{Message: entities.ErrItemNotFound.Error()}
	}

	for i := range e.cart.Items {
		if e.cart.Items[i].ID == itemID {
			e.cart.Items = append(e.cart.Items[:i], e.cart.Items[i+1:]...)
			e.commit(ctx)

			return Response{Success: true, Message: "product removed from the cart", Cart: e.snapshot()}
		}
	}

	return Response{Message: entities.ErrItemNotFound.Error()}
}

func (e *Engine) onAuthChange(ctx context.Context, authenticated bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !authenticated {
		// Keep the persisted copy so the same user gets it back on the
		// next login.
		e.cart = nil
		e.publish()

		return
	}

	user := e.sessions.CurrentUser()
	if user == nil {
		return
	}

	e.loadOrCreate(ctx, user.ID)
}

func (e *Engine) loadOrCreate(ctx context.Context, userID string) {
	raw, err := e.store.Get(ctx, cartKeyPrefix+userID)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			e.logger.Warn("failed to read persisted cart", zap.String("user_id", userID), zap.Error(err))
		}

		e.cart = e.emptyCart(userID)
		e.commit(ctx)

		return
	}

	var cart entities.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		e.logger.Warn("persisted cart is malformed, starting fresh", zap.String("user_id", userID), zap.Error(err))
		e.cart = e.emptyCart(userID)
		e.commit(ctx)

		return
	}

	e.cart = &cart
	e.publish()

	e.logger.Info("cart loaded", zap.String("user_id", userID), zap.Int("items", len(cart.Items)))
}

func (e *Engine) emptyCart(userID string) *entities.Cart {
	now := e.now()

	return &entities.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []entities.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// commit recomputes the aggregates, persists the cart and publishes
// snapshots. A persistence failure is logged and the in-memory state kept;
// the notification stream may then run ahead of storage, which the demo
// tolerates.
func (e *Engine) commit(ctx context.Context) {
	e.recompute()

	raw, err := json.Marshal(e.cart)
	if err != nil {
		e.logger.Error("failed to encode cart", zap.Error(err))
	} else if err := e.store.Set(ctx, cartKeyPrefix+e.cart.UserID, string(raw)); err != nil {
		e.logger.Error("failed to persist cart", zap.String("user_id", e.cart.UserID), zap.Error(err))
	}

	e.publish()
}

func (e *Engine) recompute() {
	totalItems := 0
	var subtotal int64

	for _, item := range e.cart.Items {
		totalItems += item.Quantity
		subtotal += item.PriceAtTime * int64(item.Quantity)
	}

	e.cart.TotalItems = totalItems
	e.cart.Subtotal = subtotal
	// Extension point for taxes, shipping and discounts.
	e.cart.Total = subtotal
	e.cart.UpdatedAt = e.now()
}

func (e *Engine) publish() {
	e.cartUpdates.Publish(e.snapshot())
	e.summaryUpdates.Publish(summarize(e.cart))
}

func (e *Engine) snapshot() *entities.Cart {
	if e.cart == nil {
		return nil
	}

	cart := *e.cart
	cart.Items = make([]entities.CartItem, len(e.cart.Items))
	copy(cart.Items, e.cart.Items)

	return &cart
}

func summarize(cart *entities.Cart) entities.CartSummary {
	if cart == nil {
		return entities.CartSummary{IsEmpty: true}
	}

	return entities.CartSummary{
		TotalItems: cart.TotalItems,
		Subtotal:   cart.Subtotal,
		Total:      cart.Total,
		IsEmpty:    len(cart.Items) == 0,
	}
}
