package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/storage"
)

func TestLanguageDefaultsToEnglish(t *testing.T) {
	l, err := LoadLanguage(context.Background(), storage.NewMemory())
	require.NoError(t, err)

	assert.Equal(t, "en", l.Current())
	assert.Equal(t, "ltr", l.Direction())
}

func TestLanguageChangePersists(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()

	l, err := LoadLanguage(ctx, s)
	require.NoError(t, err)
	require.NoError(t, l.Change(ctx, "ar"))
	assert.Equal(t, "rtl", l.Direction())

	restored, err := LoadLanguage(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "ar", restored.Current())
}

func TestLanguageRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	l, err := LoadLanguage(ctx, storage.NewMemory())
	require.NoError(t, err)

	assert.Error(t, l.Change(ctx, "not a language!"))
	assert.Equal(t, "en", l.Current())
}
