package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"storefront/cart"
	"storefront/client"
	"storefront/config"
	"storefront/storage"
)

type options struct {
	server   string
	store    string
	dir      string
	redis    config.RedisConfig
	keySpace string
}

// session is what every command works with: the API client plus the shopper's local state.
type session struct {
	api  *client.Client
	cart *cart.Cart
	lang *client.Language
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopcli"
	}
	return filepath.Join(home, ".shopcli")
}

func (o *options) storage() (storage.Storage, error) {
	switch o.store {
	case "file":
		return storage.NewFile(o.dir), nil
	case "redis":
		return storage.NewRedis(config.SetupRedisConnection(o.redis), o.keySpace), nil
	default:
		return nil, errors.Errorf("unknown store %q, want file or redis", o.store)
	}
}

func (o *options) open(ctx context.Context) (*session, error) {
	s, err := o.storage()
	if err != nil {
		return nil, err
	}

	lang, err := client.LoadLanguage(ctx, s)
	if err != nil {
		return nil, err
	}
	c, err := cart.Load(ctx, s)
	if err != nil {
		return nil, err
	}

	return &session{
		api:  client.New(o.server, client.WithLanguage(lang)),
		cart: c,
		lang: lang,
	}, nil
}

func toCartProduct(p *client.Product) cart.Product {
	return cart.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURLs:   p.ImageURLs,
		Category:    p.Category,
	}
}
