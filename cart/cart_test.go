package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/storage"
)

// flakyStorage records writes and fails them on demand.
type flakyStorage struct {
	*storage.Memory
	fail   bool
	writes int
}

func (f *flakyStorage) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.writes++
	return f.Memory.Set(ctx, key, value)
}

var (
	headphones = Product{ID: "p1", Name: "Headphones", Price: 10.00, ImageURLs: []string{"h.jpg"}, Category: "Electronics"}
	notebook   = Product{ID: "p2", Name: "Notebook", Price: 5.00, Category: "Books"}
)

func newCart(t *testing.T) (*Cart, *flakyStorage) {
	t.Helper()
	s := &flakyStorage{Memory: storage.NewMemory()}
	c, err := Load(context.Background(), s)
	require.NoError(t, err)
	return c, s
}

func TestAddTwiceIncrementsQuantity(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, headphones))
	require.NoError(t, c.Add(ctx, headphones))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Headphones", items[0].Name)
}

func TestDecrementRemovesAtZero(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, headphones))
	require.NoError(t, c.Add(ctx, headphones))
	require.NoError(t, c.Decrement(ctx, "p1"))
	assert.Equal(t, 1, c.Items()[0].Quantity)

	require.NoError(t, c.Decrement(ctx, "p1"))
	assert.Empty(t, c.Items())
}

func TestTotal(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, headphones))
	require.NoError(t, c.Increment(ctx, "p1"))
	require.NoError(t, c.Add(ctx, notebook))

	assert.True(t, c.Total().Equal(decimal.RequireFromString("25.00")), c.Total().String())
	assert.Equal(t, 3, c.Count())
}

func TestTotalAvoidsFloatDrift(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, Product{ID: "a", Price: 0.1}))
	require.NoError(t, c.Add(ctx, Product{ID: "b", Price: 0.2}))

	assert.Equal(t, "0.3", c.Total().String())
}

func TestRemoveAndUnknownIDs(t *testing.T) {
	c, s := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, headphones))
	require.NoError(t, c.Add(ctx, notebook))
	writes := s.writes

	require.NoError(t, c.Increment(ctx, "missing"))
	require.NoError(t, c.Decrement(ctx, "missing"))
	require.NoError(t, c.Remove(ctx, "missing"))
	assert.Equal(t, writes, s.writes, "no-ops do not write")

	require.NoError(t, c.Remove(ctx, "p1"))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestEveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()

	c, err := Load(ctx, s)
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, headphones))
	require.NoError(t, c.Add(ctx, notebook))
	require.NoError(t, c.Increment(ctx, "p2"))

	restored, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, c.Items(), restored.Items())
	assert.Equal(t, []string{"h.jpg"}, restored.Items()[0].ImageURLs)

	require.NoError(t, c.Clear(ctx))
	restored, err = Load(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, restored.Items())
}

func TestStoredFormat(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	c, err := Load(ctx, s)
	require.NoError(t, err)
	require.NoError(t, c.Add(ctx, notebook))

	data, err := s.Get(ctx, storageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"p2","name":"Notebook","description":"","price":5,"img_urls":null,"category":"Books","quantity":1}]`, string(data))
}

func TestFailedWriteKeepsPreviousState(t *testing.T) {
	c, s := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, headphones))
	s.fail = true

	assert.Error(t, c.Add(ctx, headphones))
	assert.Error(t, c.Add(ctx, notebook))
	assert.Error(t, c.Decrement(ctx, "p1"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestLoadDropsEmptyEntries(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	require.NoError(t, s.Set(ctx, storageKey, []byte(`[{"_id":"x","price":1,"quantity":0},{"_id":"y","price":2,"quantity":3}]`)))

	c, err := Load(ctx, s)
	require.NoError(t, err)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "y", c.Items()[0].ID)
}

func TestLoadRejectsCorruptData(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	require.NoError(t, s.Set(ctx, storageKey, []byte(`{not json`)))

	_, err := Load(ctx, s)
	assert.Error(t, err)
}

func TestItemsReturnsCopy(t *testing.T) {
	c, _ := newCart(t)
	require.NoError(t, c.Add(context.Background(), headphones))

	items := c.Items()
	items[0].Quantity = 99
	items[0].ImageURLs[0] = "changed.jpg"

	assert.Equal(t, 1, c.Items()[0].Quantity)
	assert.Equal(t, "h.jpg", c.Items()[0].ImageURLs[0])
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	c, err := Load(ctx, storage.NewMemory())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Add(ctx, headphones))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count())
}
