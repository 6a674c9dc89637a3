// Package middleware provides LayoutStore decorators that validate and log
// layouts on their way to and from a backend.
package middleware

import "github.com/aretw0/galvani/pkg/ports"

// Middleware allows wrapping a LayoutStore to add behavior.
type Middleware func(ports.LayoutStore) ports.LayoutStore

// Chain wraps store with the given middlewares. The first middleware is the
// outermost one, so it sees every call first.
func Chain(store ports.LayoutStore, mws ...Middleware) ports.LayoutStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
