// Package cli provides CLI commands for the curator application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"os/user"

	"github.com/example/curator/internal/ctxutil"
	"github.com/example/curator/internal/wire"
)

// globalActorID stores the detected actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor detects the current operator identity and stores it
// globally. Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	if actor := os.Getenv("CURATOR_ACTOR"); actor != "" {
		globalActorID = actor
		return
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		globalActorID = u.Username
		return
	}
	globalActorID = "operator"
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// requireBridge fails fast when no bridge endpoint is configured, before a
// command tries to reach the remote store.
func requireBridge() error {
	if !wire.Config().BridgeConfigured() {
		return fmt.Errorf("bridge not configured. Set bridge.url in ~/.curator/config.yaml")
	}
	return nil
}
