package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports provider and cache activity at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) log(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return h.logger
}

func (h *logHooks) OnLoadStart(ctx context.Context, source, target string) {
	if target == "" {
		target = "."
	}
	h.log(ctx).Debug("loading metadata", "source", source, "target", target)
}

func (h *logHooks) OnLoadComplete(ctx context.Context, source string, packages int, d time.Duration, err error) {
	if err != nil {
		h.log(ctx).Debug("metadata load failed", "source", source, "error", err)
		return
	}
	h.log(ctx).Debug("metadata loaded", "source", source, "packages", packages, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.log(ctx).Debug("cache hit", "key", keyType)
}

func (h *logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.log(ctx).Debug("cache miss", "key", keyType)
}

func (h *logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.log(ctx).Debug("cache set", "key", keyType, "bytes", size)
}
