// Package cart is the client-side shopping cart. It is never reconciled against the server:
// entries keep the product snapshot taken when they were added.
package cart

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storefront/storage"
)

const storageKey = "cart"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURLs   []string `json:"img_urls"`
	Category    string   `json:"category"`
}

type Entry struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart is safe for concurrent use. Every mutation writes the whole list to storage before it
// returns; when the write fails the cart keeps its previous contents.
type Cart struct {
	mu      sync.Mutex
	storage storage.Storage
	entries []Entry
}

// Load restores the cart saved in s, or starts an empty one.
func Load(ctx context.Context, s storage.Storage) (*Cart, error) {
	data, err := s.Get(ctx, storageKey)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	var entries []Entry
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, errors.Wrap(err, "decode cart")
		}
	}

	kept := entries[:0]
	for _, entry := range entries {
		if entry.Quantity > 0 {
			kept = append(kept, entry)
		}
	}
	return &Cart{storage: s, entries: kept}, nil
}

func (c *Cart) index(entries []Entry, id string) int {
	for i, entry := range entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// mutate applies fn to a copy of the entries and commits it once persisted.
// fn reports false when nothing changed, in which case nothing is written.
func (c *Cart) mutate(ctx context.Context, fn func(entries []Entry) ([]Entry, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, changed := fn(cloneEntries(c.entries))
	if !changed {
		return nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	if err := c.storage.Set(ctx, storageKey, data); err != nil {
		return errors.Wrap(err, "save cart")
	}

	c.entries = next
	return nil
}

// Add puts p in the cart with quantity 1, or increments it when already present.
func (c *Cart) Add(ctx context.Context, p Product) error {
	return c.mutate(ctx, func(entries []Entry) ([]Entry, bool) {
		if i := c.index(entries, p.ID); i >= 0 {
			entries[i].Quantity++
			return entries, true
		}
		p.ImageURLs = append([]string(nil), p.ImageURLs...)
		return append(entries, Entry{Product: p, Quantity: 1}), true
	})
}

// Increment is a no-op for products not in the cart.
func (c *Cart) Increment(ctx context.Context, id string) error {
	return c.mutate(ctx, func(entries []Entry) ([]Entry, bool) {
		i := c.index(entries, id)
		if i < 0 {
			return entries, false
		}
		entries[i].Quantity++
		return entries, true
	})
}

// Decrement lowers the quantity and drops the entry once it reaches zero.
func (c *Cart) Decrement(ctx context.Context, id string) error {
	return c.mutate(ctx, func(entries []Entry) ([]Entry, bool) {
		i := c.index(entries, id)
		if i < 0 {
			return entries, false
		}
		entries[i].Quantity--
		if entries[i].Quantity <= 0 {
			return append(entries[:i], entries[i+1:]...), true
		}
		return entries, true
	})
}

func (c *Cart) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, func(entries []Entry) ([]Entry, bool) {
		i := c.index(entries, id)
		if i < 0 {
			return entries, false
		}
		return append(entries[:i], entries[i+1:]...), true
	})
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, func(entries []Entry) ([]Entry, bool) {
		return []Entry{}, len(entries) > 0
	})
}

// Items returns a copy of the entries in the order they were first added.
func (c *Cart) Items() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneEntries(c.entries)
}

// Count is the number of units across all entries.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, entry := range c.entries {
		count += entry.Quantity
	}
	return count
}

// Total sums price times quantity in decimal arithmetic.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, entry := range c.entries {
		line := decimal.NewFromFloat(entry.Price).Mul(decimal.NewFromInt(int64(entry.Quantity)))
		total = total.Add(line)
	}
	return total
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[i] = entry
		out[i].ImageURLs = append([]string(nil), entry.ImageURLs...)
	}
	return out
}
