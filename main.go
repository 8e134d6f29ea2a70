package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
)

var baseDir string

func main() {
	dataFlag := flag.String("data", "", "converted game data directory")
	variantFlag := flag.String("variant", "", "game variant id from variants.yaml")
	debugFlag := flag.Bool("debug", false, "verbose/debug logging")
	scaleFlag := flag.Int("scale", 0, "window scale factor")
	listFlag := flag.Bool("saves", false, "list save slots and exit")
	loadFlag := flag.Int("load", 0, "load this save slot at boot")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			log.Fatalf("get working directory: %v", err)
		}
	}

	loadSettings()
	if *dataFlag != "" {
		gs.DataDir = *dataFlag
	}
	if *variantFlag != "" {
		gs.Variant = *variantFlag
	}
	if *debugFlag {
		gs.Debug = true
	}
	if *scaleFlag > 0 {
		gs.Scale = *scaleFlag
	}
	setupLogging(gs.Debug)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
		}
	}()

	if gs.DataDir == "" {
		gs.DataDir = filepath.Join(baseDir, "data")
	}
	res := newDirLoader(gs.DataDir)

	variants, err := loadVariants(res)
	if err != nil {
		log.Fatalf("%v", err)
	}
	variant := findVariant(variants, gs.Variant)
	if variant == nil {
		if gs.Variant != "" {
			logError("variant %q not in variants.yaml, using %q", gs.Variant, variants[0].Id)
		}
		variant = &variants[0]
	}
	gs.Variant = variant.Id

	go precacheResources(res)

	e, err := newEngine(res, variant, nil, nil, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}
	e.textSpeed = gs.TextSpeed

	saves, err := openSaveManager("godgds-" + variant.Id)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *listFlag {
		for _, info := range saves.List() {
			fmt.Println(info.Label())
		}
		return
	}

	if err := e.startGame(); err != nil {
		log.Fatalf("start game: %v", err)
	}
	if err := saves.SaveRestart(e); err != nil {
		logError("record restart state: %v", err)
	}
	if *loadFlag > 0 {
		if err := saves.LoadSlot(e, *loadFlag); err != nil {
			log.Fatalf("load slot %d: %v", *loadFlag, err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if gs.Debug {
		go runDebugStats(ctx, e)
	}
	if gs.Presence {
		go runPresence(ctx, e)
	}

	applySettings()
	ebiten.SetWindowTitle(variant.Title)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	ebiten.SetTPS(30)

	if err := ebiten.RunGame(newGame(e, saves)); err != nil {
		logError("%v", err)
		saveSettings()
		os.Exit(1)
	}
	saveSettings()
}
