package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	errorLogger *log.Logger
	debugLogger *log.Logger

	warnMu    sync.Mutex
	warnGates = map[string]*rate.Sometimes{}
)

func setupLogging(debug bool) {
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("could not create log directory: %v\n", err)
	}
	ts := time.Now().Format("20060102-150405")

	errPath := filepath.Join(logDir, fmt.Sprintf("error-%s.log", ts))
	errFile, err := os.Create(errPath)
	var errWriter io.Writer = os.Stdout
	if err == nil {
		errWriter = io.MultiWriter(os.Stdout, errFile)
	}
	errorLogger = log.New(errWriter, "", log.LstdFlags)
	log.SetOutput(errWriter)

	setDebugLogging(debug)
}

func logError(format string, v ...interface{}) {
	if errorLogger != nil {
		errorLogger.Printf(format, v...)
		return
	}
	log.Printf(format, v...)
}

// logWarnEvery rate-limits a per-key warning so a guard that trips every
// frame cannot flood the log.
func logWarnEvery(key, format string, v ...interface{}) {
	warnMu.Lock()
	gate, ok := warnGates[key]
	if !ok {
		gate = &rate.Sometimes{First: 3, Interval: 5 * time.Second}
		warnGates[key] = gate
	}
	warnMu.Unlock()
	gate.Do(func() { logError(format, v...) })
}

func logDebug(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, v...)
	}
}

func setDebugLogging(enabled bool) {
	if !enabled {
		debugLogger = nil
		return
	}
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("could not create log directory: %v\n", err)
	}
	ts := time.Now().Format("20060102-150405")
	dbgPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", ts))
	dbgFile, err := os.Create(dbgPath)
	var dbgWriter io.Writer = os.Stdout
	if err == nil {
		dbgWriter = io.MultiWriter(os.Stdout, dbgFile)
	}
	debugLogger = log.New(dbgWriter, "", log.LstdFlags)
}
