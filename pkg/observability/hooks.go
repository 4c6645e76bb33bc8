// Package observability provides hooks for instrumenting metadata loading
// and the metadata cache.
//
// Libraries call the registered hooks; the CLI decides what to do with the
// events (the default is nothing). This keeps pkg/metadata free of any
// logging setup.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetProviderHooks(&logHooks{logger})
//	observability.SetCacheHooks(&logHooks{logger})
//
// Libraries emit events:
//
//	observability.Provider().OnLoadStart(ctx, "cargo", manifestPath)
//	// ... run cargo metadata ...
//	observability.Provider().OnLoadComplete(ctx, "cargo", packages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Provider Hooks
// =============================================================================

// ProviderHooks receives events from metadata providers.
type ProviderHooks interface {
	// OnLoadStart is called before a provider loads metadata. source names
	// the provider ("cargo", "file") and target the manifest or file path.
	OnLoadStart(ctx context.Context, source, target string)

	// OnLoadComplete is called after loading, successful or not.
	OnLoadComplete(ctx context.Context, source string, packages int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopProviderHooks is a no-op implementation of ProviderHooks.
type NoopProviderHooks struct{}

func (NoopProviderHooks) OnLoadStart(context.Context, string, string) {}
func (NoopProviderHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	providerHooks ProviderHooks = NoopProviderHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetProviderHooks registers custom provider hooks. Nil is ignored.
func SetProviderHooks(h ProviderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		providerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Provider returns the registered provider hooks.
func Provider() ProviderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return providerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	providerHooks = NoopProviderHooks{}
	cacheHooks = NoopCacheHooks{}
}
