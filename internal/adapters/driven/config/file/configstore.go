package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFile is the settings file name inside the config directory.
const ConfigFile = "config.toml"

// ConfigStore keeps settings in a TOML file. Dotted keys map onto tables,
// so "publish.bucket" is written as bucket under [publish].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens configDir/config.toml, creating configDir when
// needed. An empty configDir means ~/.skilldex.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".skilldex")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	path := filepath.Join(configDir, ConfigFile)
	values, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{path: path, values: values}, nil
}

func (s *ConfigStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) String(key string) string {
	v, _ := s.Lookup(key)
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int reads key as an integer. TOML decodes integers as int64.
func (s *ConfigStore) Int(key string) int {
	v, _ := s.Lookup(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func (s *ConfigStore) Bool(key string) bool {
	v, _ := s.Lookup(key)
	b, _ := v.(bool)
	return b
}

// Set writes value and rewrites the file. A failed write leaves the
// previous value in place.
func (s *ConfigStore) Set(key string, value any) error {
	return s.update(func(next map[string]any) { next[key] = value })
}

func (s *ConfigStore) Unset(key string) error {
	s.mu.RLock()
	_, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.update(func(next map[string]any) { delete(next, key) })
}

func (s *ConfigStore) Path() string {
	return s.path
}

// update applies change to a copy and swaps it in once the file is written.
func (s *ConfigStore) update(change func(map[string]any)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.values)
	change(next)
	if err := writeFile(s.path, next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	flat := make(map[string]any)
	flatten(flat, "", tables)
	return flat, nil
}

func writeFile(path string, flat map[string]any) error {
	tables, err := nest(flat)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// flatten copies tables into dst with dotted keys under prefix.
func flatten(dst map[string]any, prefix string, tables map[string]any) {
	for name, v := range tables {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if table, ok := v.(map[string]any); ok {
			flatten(dst, key, table)
			continue
		}
		dst[key] = v
	}
}

// nest turns dotted keys back into tables. A key that is both a value and
// a table prefix ("a" and "a.b") has no TOML form.
func nest(flat map[string]any) (map[string]any, error) {
	root := make(map[string]any)
	for key, v := range flat {
		path := strings.Split(key, ".")
		table := root
		for depth, name := range path[:len(path)-1] {
			existing, found := table[name]
			if !found {
				child := make(map[string]any)
				table[name] = child
				table = child
				continue
			}
			child, isTable := existing.(map[string]any)
			if !isTable {
				return nil, fmt.Errorf("config key %q conflicts with %q", key, strings.Join(path[:depth+1], "."))
			}
			table = child
		}

		leaf := path[len(path)-1]
		if _, isTable := table[leaf].(map[string]any); isTable {
			return nil, fmt.Errorf("config key %q conflicts with a table of the same name", key)
		}
		table[leaf] = v
	}
	return root, nil
}
