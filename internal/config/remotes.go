package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// RemotesConfig holds all named remotes and tracks which one is active.
type RemotesConfig struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// Remote is a named glossary service profile.
type Remote struct {
	Transport string `toml:"transport,omitempty"`
	URL       string `toml:"url,omitempty"`
	GRPCAddr  string `toml:"grpc_addr,omitempty"`
	NATSURL   string `toml:"nats_url,omitempty"`
}

// ErrNoSuchRemote is returned when a named remote is not configured.
var ErrNoSuchRemote = errors.New("no such remote")

// RemotesPath returns ~/.local/state/glossary/remotes.toml.
func RemotesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "glossary", "remotes.toml"), nil
}

// LoadRemotes reads path. A missing file is an empty configuration.
func LoadRemotes(path string) (RemotesConfig, error) {
	var cfg RemotesConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return RemotesConfig{Remotes: map[string]Remote{}}, nil
		}
		return RemotesConfig{}, err
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]Remote{}
	}
	return cfg, nil
}

// SaveRemotes writes cfg to path, creating its directory.
func SaveRemotes(path string, cfg RemotesConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ActiveRemote returns the active remote, if one is set and exists.
func (c RemotesConfig) ActiveRemote() (Remote, bool) {
	if c.Active == "" {
		return Remote{}, false
	}
	r, ok := c.Remotes[c.Active]
	return r, ok
}

// Use makes name the active remote.
func (c *RemotesConfig) Use(name string) error {
	if _, ok := c.Remotes[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchRemote, name)
	}
	c.Active = name
	return nil
}

// Remove deletes name, clearing the active remote if it was name.
func (c *RemotesConfig) Remove(name string) error {
	if _, ok := c.Remotes[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchRemote, name)
	}
	delete(c.Remotes, name)
	if c.Active == name {
		c.Active = ""
	}
	return nil
}

// Names returns the configured remote names, sorted.
func (c RemotesConfig) Names() []string {
	names := make([]string, 0, len(c.Remotes))
	for n := range c.Remotes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
