package setup

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
)

var ErrSchemeNotRegistered = errors.New("scheme not registered")

type FactoryFunc[T any] func(ctx context.Context, u *url.URL) (T, error)

type Registry[T any] struct {
	mutex     sync.RWMutex
	factories map[string]FactoryFunc[T]
}

func (r *Registry[T]) Register(scheme string, factory FactoryFunc[T]) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.factories[scheme] = factory
}

func (r *Registry[T]) From(ctx context.Context, rawURL string) (T, error) {
	var zero T

	u, err := url.Parse(rawURL)
	if err != nil {
		return zero, errors.Wrapf(err, "could not parse uri '%s'", rawURL)
	}

	r.mutex.RLock()
	factory, exists := r.factories[u.Scheme]
	r.mutex.RUnlock()

	if !exists {
		return zero, errors.Wrapf(ErrSchemeNotRegistered, "no factory associated with scheme '%s'", u.Scheme)
	}

	value, err := factory(ctx, u)
	if err != nil {
		return zero, errors.WithStack(err)
	}

	return value, nil
}

func (r *Registry[T]) Schemes() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	schemes := make([]string, 0, len(r.factories))
	for s := range r.factories {
		schemes = append(schemes, s)
	}

	return schemes
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[string]FactoryFunc[T]),
	}
}
