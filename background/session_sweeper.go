// Package background contains services that run independently of the HTTP
// request-response cycle, such as scheduled cleanup jobs.
package background

import (
	"context"
	"fmt"
	"log"
	"time"
)

// SessionStore is the subset of the user repository the sweeper needs.
type SessionStore interface {
	ClearStaleRefreshTokens(ctx context.Context, olderThan string) (int64, error)
}

const (
	// sweepInterval is how often the sweeper scans for stale sessions.
	sweepInterval = 1 * time.Hour

	// sweepTimeout bounds a single cleanup query.
	sweepTimeout = 30 * time.Second
)

// StartSessionSweeper launches a background goroutine that periodically
// clears refresh tokens whose last rotation is older than the refresh token
// lifetime. Such tokens can no longer pass verification, so removing them
// keeps the users table from accumulating dead sessions.
//
// The sweeper stops when stopChan is closed.
func StartSessionSweeper(store SessionStore, refreshTokenTTL time.Duration, stopChan <-chan struct{}) {
	log.Println("Session sweeper starting...")

	olderThan := fmt.Sprintf("%d seconds", int64(refreshTokenTTL.Seconds()))

	go func() {
		defer log.Println("Session sweeper stopped.")

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		// Run one sweep at startup so a long-stopped deployment
		// catches up immediately instead of waiting a full interval.
		sweep(store, olderThan)

		for {
			select {
			case <-ticker.C:
				sweep(store, olderThan)
			case <-stopChan:
				return
			}
		}
	}()
}

func sweep(store SessionStore, olderThan string) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	cleared, err := store.ClearStaleRefreshTokens(ctx, olderThan)
	if err != nil {
		log.Printf("Session sweeper: cleanup failed: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("Session sweeper: cleared %d stale session(s)", cleared)
	}
}
