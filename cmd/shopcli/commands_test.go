package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/cart"
	"storefront/storage"
)

const widgetJSON = `{"_id":"p1","name":"Widget","description":"a widget","price":10,"img_url":"w.png","img_urls":["w.png"],"category":"Home","show":true}`

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/prod/p1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(widgetJSON))
		case "/api/prod/", "/api/prod":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[" + widgetJSON + "]"))
		default:
			http.Error(w, "Product with this id not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, server, dir string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--server", server, "--dir", dir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCartCommands(t *testing.T) {
	server := newFakeServer(t)
	dir := t.TempDir()

	_, err := run(t, server.URL, dir, "cart", "add", "p1")
	require.NoError(t, err)
	out, err := run(t, server.URL, dir, "cart", "add", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "20.00")

	saved, err := cart.Load(context.Background(), storage.NewFile(dir))
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Count())

	_, err = run(t, server.URL, dir, "cart", "dec", "p1")
	require.NoError(t, err)
	out, err = run(t, server.URL, dir, "cart", "dec", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "cart is empty")
}

func TestCartAddUnknownProduct(t *testing.T) {
	server := newFakeServer(t)
	_, err := run(t, server.URL, t.TempDir(), "cart", "add", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestProductsCommand(t *testing.T) {
	server := newFakeServer(t)
	out, err := run(t, server.URL, t.TempDir(), "products")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Widget")
}

func TestLangCommandPersists(t *testing.T) {
	server := newFakeServer(t)
	dir := t.TempDir()

	out, err := run(t, server.URL, dir, "lang", "he")
	require.NoError(t, err)
	assert.Equal(t, "he (rtl)\n", out)

	out, err = run(t, server.URL, dir, "lang")
	require.NoError(t, err)
	assert.Equal(t, "he (rtl)\n", out)
}

func TestUnknownStore(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", t.TempDir(), "--store", "s3", "lang")
	require.Error(t, err)
}
