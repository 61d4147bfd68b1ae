package cart

import (
	"context"
	"errors"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"go.uber.org/zap"
	"sync"
)

// Storage is the key-value store a cart is persisted to.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Updater is a Storage that can apply a read-modify-write atomically, so
// carts sharing a key in different requests or processes never lose a transition.
type Updater interface {
	Update(ctx context.Context, key string, fn func(current string, ok bool) (string, error)) error
}

// Cart is the state machine over a single cart. Transitions are serialized by
// a mutex and every transition writes the new state to Storage. Write failures
// are logged; the in-memory state stays authoritative.
type Cart struct {
	mu    sync.Mutex
	state State
	store Storage
	key   string
	log   *zap.Logger
}

func New(store Storage, key string, log *zap.Logger) *Cart {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cart{state: Empty(), store: store, key: key, log: log}
}

// Load builds a cart hydrated from storage. Missing, unreadable or corrupt
// payloads yield an empty cart.
func Load(ctx context.Context, store Storage, key string, log *zap.Logger) *Cart {
	c := New(store, key, log)
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cart load failed, starting empty", zap.String("key", key), zap.Error(err))
		return c
	}
	if !ok {
		return c
	}
	s, err := Decode(raw)
	if err != nil {
		if errors.Is(err, ErrCorruptPayload) {
			c.log.Warn("discarding corrupt cart", zap.String("key", key), zap.Error(err))
		}
		return c
	}
	c.mu.Lock()
	c.state = Reduce(c.state, Action{Type: ActionInitialize, State: s})
	c.mu.Unlock()
	return c
}

func (c *Cart) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cart) Add(ctx context.Context, p catalog.Product) State {
	return c.dispatch(ctx, Action{Type: ActionAdd, Product: p})
}

// AddN adds n units of p in a single transition.
func (c *Cart) AddN(ctx context.Context, p catalog.Product, n int) State {
	return c.dispatch(ctx, Action{Type: ActionAdd, Product: p, Quantity: n})
}

func (c *Cart) Remove(ctx context.Context, productID string) State {
	return c.dispatch(ctx, Action{Type: ActionRemove, ProductID: productID})
}

// SetQuantity removes the item when quantity <= 0.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) State {
	return c.dispatch(ctx, Action{Type: ActionSetQuantity, ProductID: productID, Quantity: quantity})
}

func (c *Cart) Clear(ctx context.Context) State {
	return c.dispatch(ctx, Action{Type: ActionClear})
}

func (c *Cart) Initialize(ctx context.Context, s State) State {
	return c.dispatch(ctx, Action{Type: ActionInitialize, State: s})
}

func (c *Cart) dispatch(ctx context.Context, a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.store.(Updater); ok {
		c.state = c.update(ctx, u, a)
		return c.state
	}
	c.state = Reduce(c.state, a)
	c.persist(ctx, a.Type)
	return c.state
}

// update reduces against the persisted state inside the store's atomic
// update. On failure the transition still applies to the in-memory state.
func (c *Cart) update(ctx context.Context, u Updater, a Action) State {
	var next State
	err := u.Update(ctx, c.key, func(current string, ok bool) (string, error) {
		base := Empty()
		if ok {
			s, err := Decode(current)
			if err != nil {
				c.log.Warn("discarding corrupt cart", zap.String("key", c.key), zap.Error(err))
			} else {
				base = Reduce(base, Action{Type: ActionInitialize, State: s})
			}
		}
		next = Reduce(base, a)
		return Encode(next)
	})
	if err != nil {
		c.log.Warn("cart persist failed", zap.String("key", c.key), zap.Stringer("action", a.Type), zap.Error(err))
		return Reduce(c.state, a)
	}
	return next
}

func (c *Cart) persist(ctx context.Context, t ActionType) {
	raw, err := Encode(c.state)
	if err == nil {
		err = c.store.Set(ctx, c.key, raw)
	}
	if err != nil {
		c.log.Warn("cart persist failed", zap.String("key", c.key), zap.Stringer("action", t), zap.Error(err))
	}
}
