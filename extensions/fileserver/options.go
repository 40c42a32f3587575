package fileserver

import (
	"github.com/D-DSOLUTIONS/ddsolutions-webpage/extensions/log"
	"github.com/sirupsen/logrus"
)

const DefaultIndex = "index.html"

type options struct {
	index          string
	maxConnections int
	logger         *logrus.Entry
}

type Option func(*options)

// WithIndex sets the document served for the root path.
func WithIndex(name string) Option {
	return func(o *options) {
		if name != "" {
			o.index = name
		}
	}
}

// WithMaxConnections caps the number of simultaneously accepted connections.
// Zero or a negative value means no limit.
func WithMaxConnections(n int) Option {
	return func(o *options) {
		o.maxConnections = n
	}
}

func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		index:  DefaultIndex,
		logger: log.NewLogger("fileserver"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
