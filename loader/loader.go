package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dirt/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game          *lua.LTable
	verbs         []rawDef
	conversations []rawDef
	dialogues     []rawDef
}

// rawDef holds a named definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// Option configures Load.
type Option func(*config)

type config struct {
	log       logrus.FieldLogger
	scripts   map[string]bool
	opponents map[string]bool
}

// WithLogger sets the logger for loading progress and validation warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.log = l }
}

// WithScripts declares dialogue IDs implemented in Go, so content may
// start them.
func WithScripts(ids ...string) Option {
	return func(c *config) {
		for _, id := range ids {
			c.scripts[id] = true
		}
	}
}

// WithOpponents declares the opponents battles and encounters may name.
// Without it opponent names are not checked.
func WithOpponents(ids ...string) Option {
	return func(c *config) {
		if c.opponents == nil {
			c.opponents = map[string]bool{}
		}
		for _, id := range ids {
			c.opponents[id] = true
		}
	}
}

func newConfig(opts []Option) *config {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	c := &config{log: quiet, scripts: map[string]bool{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads all .lua files from dir, compiles them into game definitions,
// validates references, and returns the immutable Defs. The Lua VM is
// discarded after loading.
func Load(dir string, opts ...Option) (*state.Defs, error) {
	cfg := newConfig(opts)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// game.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := newVM()
	defer L.Close()
	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		cfg.log.WithField("file", path).Debug("executing content file")
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}

	if err := validate(defs, cfg); err != nil {
		return nil, err
	}

	cfg.log.WithFields(logrus.Fields{
		"conversations": len(defs.Conversations),
		"dialogues":     len(defs.Dialogues),
		"verbs":         len(defs.Verbs),
	}).Info("content loaded")
	return defs, nil
}

// newVM creates a sandboxed Lua VM.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not reseed the game's randomness.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
