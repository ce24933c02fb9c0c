package jsonregister

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures optional Registrar behaviour.
type Option func(*registrarOptions)

type registrarOptions struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	store      Store
}

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *registrarOptions) {
		o.logger = logger
	}
}

// WithMetrics exposes cache hit/miss/eviction metrics on the given
// Prometheus registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *registrarOptions) {
		o.registerer = reg
	}
}

// WithStore substitutes a custom store gateway, bypassing the SQL gateway
// the Config describes. Connection-related Config fields are ignored; the
// Registrar takes ownership of the store and closes it on Close.
func WithStore(s Store) Option {
	return func(o *registrarOptions) {
		o.store = s
	}
}
