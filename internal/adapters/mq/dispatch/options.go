package dispatch

import "github.com/okian/ember/pkg/logger"

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithName sets the dispatcher name used for logging.
func WithName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.name = name
			d.logger = logger.Get().Named(name)
		}
	}
}
