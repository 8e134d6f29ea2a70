package main

import (
	"context"
	"fmt"
	"time"

	client "github.com/hugolgst/rich-go/client"
	"golang.org/x/time/rate"
)

const discordAppID = "1406171210240360508"

// runPresence publishes the current scene to the player's rich presence.
// Updates are rate limited well under the service's ceiling; a failed
// login just disables the whole thing.
func runPresence(ctx context.Context, e *Engine) {
	if err := client.Login(discordAppID); err != nil {
		logError("presence login: %v", err)
		return
	}
	defer client.Logout()

	start := time.Now()
	limit := rate.NewLimiter(rate.Every(20*time.Second), 1)
	lastScene := uint16(0)

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		if e.sceneNum == lastScene || !limit.Allow() {
			continue
		}
		lastScene = e.sceneNum
		if err := client.SetActivity(client.Activity{
			State:   e.variant.Title,
			Details: fmt.Sprintf("Scene %d, %s played", e.sceneNum, playTimeString(e.playSecs)),
			Timestamps: &client.Timestamps{
				Start: &start,
			},
		}); err != nil {
			logError("presence update: %v", err)
		}
	}
}
