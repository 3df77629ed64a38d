// Package assets resolves image and sound names to files across an ordered
// list of search locations, and caches the handles it produces.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/nathoo/dirt/types"
)

// ErrNotFound is returned when no search location has the asset.
var ErrNotFound = errors.New("asset not found")

// Resolver turns asset paths into handles.
type Resolver interface {
	LoadImage(name string) (types.Image, error)
	LoadSound(name string) (types.Sound, error)
}

// Location is one place assets are searched for.
type Location struct {
	Label string // shown in resolved paths, usually the directory
	FS    fs.FS
}

// Dir returns a location backed by a directory on disk.
func Dir(dir string) Location {
	return Location{Label: dir, FS: os.DirFS(dir)}
}

// Catalog searches its locations in order (user data, site data, mod
// override, packaged default) and returns the first match.
type Catalog struct {
	locations []Location
}

// NewCatalog creates a catalog over locations, highest priority first.
func NewCatalog(locations ...Location) *Catalog {
	return &Catalog{locations: locations}
}

// NewDirCatalog creates a catalog over directories, highest priority first.
func NewDirCatalog(dirs ...string) *Catalog {
	locs := make([]Location, len(dirs))
	for i, d := range dirs {
		locs[i] = Dir(d)
	}
	return NewCatalog(locs...)
}

// LoadImage finds an image. A name without an extension also matches
// name.png.
func (c *Catalog) LoadImage(name string) (types.Image, error) {
	p, err := c.find(name, ".png")
	if err != nil {
		return types.Image{}, err
	}
	return types.Image{Name: name, Path: p}, nil
}

// LoadSound finds a sound. A name without an extension also matches
// name.wav.
func (c *Catalog) LoadSound(name string) (types.Sound, error) {
	p, err := c.find(name, ".wav")
	if err != nil {
		return types.Sound{}, err
	}
	return types.Sound{Name: name, Path: p}, nil
}

func (c *Catalog) find(name, ext string) (string, error) {
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = append(candidates, name+ext)
	}
	for _, loc := range c.locations {
		for _, cand := range candidates {
			if !fs.ValidPath(cand) {
				continue
			}
			info, err := fs.Stat(loc.FS, cand)
			if err != nil || info.IsDir() {
				continue
			}
			return path.Join(loc.Label, cand), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Cache remembers resolved handles so each asset is looked up once. It is
// passed to whatever needs assets rather than held globally.
type Cache struct {
	resolver Resolver

	mu     sync.Mutex
	images map[string]types.Image
	sounds map[string]types.Sound
}

// NewCache creates a cache in front of r.
func NewCache(r Resolver) *Cache {
	return &Cache{
		resolver: r,
		images:   map[string]types.Image{},
		sounds:   map[string]types.Sound{},
	}
}

// Image returns the image called name, resolving it on first use.
func (c *Cache) Image(name string) (types.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[name]; ok {
		return img, nil
	}
	img, err := c.resolver.LoadImage(name)
	if err != nil {
		return types.Image{}, err
	}
	c.images[name] = img
	return img, nil
}

// Sound returns the sound called name, resolving it on first use.
func (c *Cache) Sound(name string) (types.Sound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snd, ok := c.sounds[name]; ok {
		return snd, nil
	}
	snd, err := c.resolver.LoadSound(name)
	if err != nil {
		return types.Sound{}, err
	}
	c.sounds[name] = snd
	return snd, nil
}

// FirstImage returns the first of names that resolves. It is used for
// assets with optional variants, such as "throne_night" before "throne".
func (c *Cache) FirstImage(names ...string) (types.Image, error) {
	var errs []error
	for _, n := range names {
		img, err := c.Image(n)
		if err == nil {
			return img, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return types.Image{}, ErrNotFound
	}
	return types.Image{}, errors.Join(errs...)
}
