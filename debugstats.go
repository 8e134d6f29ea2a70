package main

import (
	"context"
	"time"
)

var (
	statFrames int
	statDraws  int
)

// runDebugStats dumps engine counters to the debug log once a second.
// It only runs with -debug; the counters are written from the main loop
// and read here, close enough for a log line.
func runDebugStats(ctx context.Context, e *Engine) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			frames, draws := statFrames, statDraws
			statFrames, statDraws = 0, 0
			logDebug("stats: scene=%d overlay=%q frames=%d draws=%d play=%s clock=%s",
				e.sceneNum, e.script.OverlayName(), frames, draws, playTimeString(e.playSecs), e.clock)
		}
	}
}
