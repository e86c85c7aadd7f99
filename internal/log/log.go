package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// NewContext returns a context carrying the given entry so request-scoped
// fields (request id, user id) follow the call chain.
func NewContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// GetLogger returns the entry stored in ctx, or an entry on the standard
// logger when none was attached.
func GetLogger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
