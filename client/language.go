package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"storefront/storage"
)

const languageKey = "lang"

// DefaultLanguage is used until the shopper picks another one.
var DefaultLanguage = language.English

// Language is the shopper's persisted display language, sent to the server as Accept-Language.
type Language struct {
	mu      sync.RWMutex
	storage storage.Storage
	current language.Tag
}

func LoadLanguage(ctx context.Context, s storage.Storage) (*Language, error) {
	l := &Language{storage: s, current: DefaultLanguage}

	data, err := s.Get(ctx, languageKey)
	if err != nil {
		return nil, errors.Wrap(err, "load language")
	}
	if len(data) > 0 {
		if tag, err := language.Parse(string(data)); err == nil {
			l.current = tag
		}
	}
	return l, nil
}

// Change validates lang as a BCP 47 tag and persists it.
func (l *Language) Change(ctx context.Context, lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return errors.Wrapf(err, "parse language %q", lang)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.storage.Set(ctx, languageKey, []byte(tag.String())); err != nil {
		return errors.Wrap(err, "save language")
	}
	l.current = tag
	return nil
}

func (l *Language) Current() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current.String()
}

// Direction is "rtl" for languages written in a right-to-left script.
func (l *Language) Direction() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	script, _ := l.current.Script()
	switch script.String() {
	case "Arab", "Hebr", "Thaa", "Syrc", "Nkoo":
		return "rtl"
	}
	return "ltr"
}
