package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
)

// ResourceLoader hands out converted game resources by their original
// names (S55.SDS, DRAGON.PAL, ...). Loaders own caching; callers must not
// mutate returned bytes.
type ResourceLoader interface {
	Has(name string) bool
	Load(name string) ([]byte, error)
}

// dirLoader serves resources from a data directory, keeping file bytes
// around after the first load.
type dirLoader struct {
	root string

	mu    sync.Mutex
	cache map[string][]byte
}

func newDirLoader(root string) *dirLoader {
	return &dirLoader{root: root, cache: make(map[string][]byte)}
}

func (l *dirLoader) path(name string) string {
	return filepath.Join(l.root, filepath.Base(name))
}

func (l *dirLoader) Has(name string) bool {
	l.mu.Lock()
	_, ok := l.cache[name]
	l.mu.Unlock()
	if ok {
		return true
	}
	st, err := os.Stat(l.path(name))
	return err == nil && !st.IsDir()
}

func (l *dirLoader) Load(name string) ([]byte, error) {
	l.mu.Lock()
	data, ok := l.cache[name]
	l.mu.Unlock()
	if ok {
		return data, nil
	}
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", name, err)
	}
	l.mu.Lock()
	l.cache[name] = data
	l.mu.Unlock()
	return data, nil
}

// Names lists every resource in the data directory, sorted.
func (l *dirLoader) Names() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// memLoader holds resources in memory. Tests and embedded data use it.
type memLoader struct {
	files map[string][]byte
}

func newMemLoader() *memLoader {
	return &memLoader{files: make(map[string][]byte)}
}

func (l *memLoader) add(name string, data []byte) *memLoader {
	l.files[name] = data
	return l
}

func (l *memLoader) Has(name string) bool {
	_, ok := l.files[name]
	return ok
}

func (l *memLoader) Load(name string) ([]byte, error) {
	data, ok := l.files[name]
	if !ok {
		return nil, fmt.Errorf("load resource %s: not found", name)
	}
	return data, nil
}

// precacheResources pulls the whole data directory into the loader cache
// with a few readers in flight so first scene changes do not hit disk.
func precacheResources(l *dirLoader) {
	names, err := l.Names()
	if err != nil {
		logError("precache: %v", err)
		return
	}
	swg := sizedwaitgroup.New(4)
	for _, name := range names {
		swg.Add()
		go func(n string) {
			defer swg.Done()
			if _, err := l.Load(n); err != nil {
				logError("precache %s: %v", n, err)
			}
		}(name)
	}
	swg.Wait()

	var total uint64
	l.mu.Lock()
	for _, data := range l.cache {
		total += uint64(len(data))
	}
	n := len(l.cache)
	l.mu.Unlock()
	logDebug("precached %s resources, %s", humanize.Comma(int64(n)), humanize.Bytes(total))
}
