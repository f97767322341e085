package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/meshbake/engine/assets/loaders"
	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetEvent reports a change to a known asset while watching.
type AssetEvent struct {
	Path    string
	Type    metadata.ResourceType
	Removed bool
}

type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	events   chan AssetEvent
	errors   chan error
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		events:  make(chan AssetEvent, 64),
		errors:  make(chan error, 8),
		done:    make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.MeshLoader{})
	am.registerLoader(metadata.ResourceTypeConfig, &loaders.ConfigLoader{})
	return am
}

// Initialize indexes every asset under assetsDir.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.root = assetsDir

	info, err := os.Stat(assetsDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		am.handleFileEvent(assetsDir)
		return nil
	}
	return am.walk(assetsDir, false)
}

// Watch starts watching the indexed directory and all sub-directories.
// Changes are delivered on Events until Close is called.
func (am *AssetManager) Watch() error {
	if am.isClosed {
		return core.ErrWatcherClosed
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch

	if err := am.walk(am.root, true); err != nil {
		fsWatch.Close()
		return err
	}
	go am.start()
	return nil
}

// Events returns the channel asset changes are delivered on.
func (am *AssetManager) Events() <-chan AssetEvent {
	return am.events
}

// Errors returns the channel watcher errors are delivered on.
func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

// Close stops the watcher. The event channels are closed once it exits.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return core.ErrWatcherClosed
	}
	am.isClosed = true
	close(am.done)
	if am.fsnotify == nil {
		close(am.events)
		close(am.errors)
	}
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Assets returns the indexed assets of the given type, sorted by path.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.assets))
	for _, asset := range am.assets {
		if asset.Type == resourceType {
			out = append(out, asset)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	am.mutex.Lock()
	asset, exists := am.assets[path]
	if !exists {
		asset = AssetInfo{Path: path, Type: resourceType}
	}
	asset.LastLoaded = time.Now()
	am.assets[path] = asset
	am.mutex.Unlock()

	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("%w: %d", core.ErrNoLoader, resourceType)
	}

	return loader.Load(path, resourceType, params)
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	loader, exists := am.loaders[asset.Type]
	if !exists {
		return fmt.Errorf("%w: %d", core.ErrNoLoader, asset.Type)
	}
	return loader.Unload(asset)
}

func (am *AssetManager) start() {
	defer func() {
		am.fsnotify.Close()
		close(am.events)
		close(am.errors)
	}()

	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Has(fsnotify.Create) {
					if err := am.walk(e.Name, true); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}

			assetType := DetermineAssetType(e.Name)
			if assetType == metadata.ResourceTypeNone {
				continue
			}

			// Handle create or modify events
			if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
				am.handleFileEvent(e.Name)
				am.emit(AssetEvent{Path: e.Name, Type: assetType})
			}
			// a rename is reported on the old name, the new name gets a Create
			if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
				am.removeAsset(e.Name)
				am.emit(AssetEvent{Path: e.Name, Type: assetType, Removed: true})
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)
			select {
			case am.errors <- err:
			default:
			}

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) emit(e AssetEvent) {
	select {
	case am.events <- e:
	case <-am.done:
	}
}

// walk indexes every file under path; with watch set, it also adds every
// directory to the watch list.
func (am *AssetManager) walk(path string, watch bool) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if watch {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := DetermineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	am.assets[path] = info
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

// DetermineAssetType maps a file name to the resource type of its loader.
func DetermineAssetType(path string) metadata.ResourceType {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, loaders.MeshExtension):
		return metadata.ResourceTypeMesh
	case filepath.Ext(base) == ".toml":
		return metadata.ResourceTypeConfig
	default:
		return metadata.ResourceTypeNone
	}
}
