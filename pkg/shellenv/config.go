package shellenv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// KV is one rc-file binding in file order.
type KV struct {
	Name  string
	Value string
}

// DefaultRCPath returns ~/.nyxshrc.toml for the current user, or "" if
// HOME cannot be determined.
func DefaultRCPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".nyxshrc.toml")
}

// LoadRC reads a flat TOML table of string key/value pairs from path, in
// the order they appear in the file. A missing file is not an error: it
// returns a nil slice and a nil error so the shell starts normally with
// no rc-file defaults. A malformed file returns an error; the caller
// reports one diagnostic and starts the shell anyway.
func LoadRC(path string) ([]KV, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading rc file %s: %w", path, err)
	}

	var raw map[string]string
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing rc file %s: %w", path, err)
	}

	kvs := make([]KV, 0, len(raw))
	for _, key := range meta.Keys() {
		name := key.String()
		if val, ok := raw[name]; ok {
			kvs = append(kvs, KV{Name: name, Value: val})
		}
	}
	return kvs, nil
}
