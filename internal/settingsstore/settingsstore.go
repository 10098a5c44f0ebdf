// Package settingsstore persists application state that users edit at
// runtime, currently the list of custom parsers, in a JSON file:
//
//	{
//	  "db_path": "./linkshelf.db",
//	  "custom_parsers": [
//	    {"name": "Pocket CSV", "type": "python", "path": "./parsers/pocket.py", "supportedFormats": ["csv"]}
//	  ]
//	}
//
// The file is read through viper and watched with viper.WatchConfig, so edits
// made by hand are picked up without a restart.
package settingsstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mrlokans/linkshelf/internal/parsers"
)

var (
	ErrDuplicateParser = errors.New("parser already configured")
	ErrParserNotFound  = errors.New("parser not configured")
)

// ParserEntry is one configured parser as stored on disk.
type ParserEntry struct {
	Name             string   `json:"name" mapstructure:"name"`
	Type             string   `json:"type" mapstructure:"type"`
	Path             string   `json:"path" mapstructure:"path"`
	SupportedFormats []string `json:"supportedFormats" mapstructure:"supportedFormats"`
	Command          []string `json:"command,omitempty" mapstructure:"command"`
	TimeoutSeconds   int      `json:"timeoutSeconds,omitempty" mapstructure:"timeoutSeconds"`
}

// Descriptor converts the entry, resolving legacy type names.
func (e ParserEntry) Descriptor() (parsers.Descriptor, error) {
	kind, impliedCommand, err := parsers.ParseKind(e.Type)
	if err != nil {
		return parsers.Descriptor{}, fmt.Errorf("parser %q: %w", e.Name, err)
	}
	command := e.Command
	if len(command) == 0 {
		command = impliedCommand
	}
	return parsers.Descriptor{
		Name:             e.Name,
		Kind:             kind,
		Path:             e.Path,
		SupportedFormats: e.SupportedFormats,
		Command:          command,
		TimeoutSeconds:   e.TimeoutSeconds,
	}, nil
}

// EntryFromDescriptor is the inverse of ParserEntry.Descriptor.
func EntryFromDescriptor(d parsers.Descriptor) ParserEntry {
	return ParserEntry{
		Name:             d.Name,
		Type:             string(d.Kind),
		Path:             d.Path,
		SupportedFormats: d.SupportedFormats,
		Command:          d.Command,
		TimeoutSeconds:   d.TimeoutSeconds,
	}
}

type State struct {
	DBPath        string        `json:"db_path,omitempty" mapstructure:"db_path"`
	CustomParsers []ParserEntry `json:"custom_parsers" mapstructure:"custom_parsers"`
}

// Descriptors converts every entry. Entries that cannot be converted are
// skipped and reported in errs.
func (s State) Descriptors() (descs []parsers.Descriptor, errs []error) {
	for _, entry := range s.CustomParsers {
		desc, err := entry.Descriptor()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		descs = append(descs, desc)
	}
	return descs, errs
}

type SettingsStore struct {
	path string
	mu   sync.Mutex

	watchOnce sync.Once
	stopped   chan struct{}
	stopOnce  sync.Once
}

func New(path string) *SettingsStore {
	return &SettingsStore{path: path, stopped: make(chan struct{})}
}

func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty state.
func (s *SettingsStore) Load() (State, error) {
	state := State{CustomParsers: []ParserEntry{}}

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return state, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := v.Unmarshal(&state); err != nil {
		return state, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	if state.CustomParsers == nil {
		state.CustomParsers = []ParserEntry{}
	}
	return state, nil
}

// Save replaces the state file atomically.
func (s *SettingsStore) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(state)
}

func (s *SettingsStore) saveLocked(state State) error {
	if state.CustomParsers == nil {
		state.CustomParsers = []ParserEntry{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// AddParser appends entry and saves. Names must be unique.
func (s *SettingsStore) AddParser(entry ParserEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Load()
	if err != nil {
		return err
	}
	for _, existing := range state.CustomParsers {
		if existing.Name == entry.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateParser, entry.Name)
		}
	}
	state.CustomParsers = append(state.CustomParsers, entry)
	return s.saveLocked(state)
}

// RemoveParser deletes the entry called name and saves.
func (s *SettingsStore) RemoveParser(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Load()
	if err != nil {
		return err
	}
	kept := make([]ParserEntry, 0, len(state.CustomParsers))
	for _, entry := range state.CustomParsers {
		if entry.Name != name {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(state.CustomParsers) {
		return fmt.Errorf("%w: %q", ErrParserNotFound, name)
	}
	state.CustomParsers = kept
	return s.saveLocked(state)
}

// Watch calls onChange with the freshly loaded state whenever the file
// changes. Bursts of events within debounce collapse into one call. Watch
// only takes effect once per store; Stop ends delivery.
func (s *SettingsStore) Watch(debounce time.Duration, onChange func(State, error)) {
	s.watchOnce.Do(func() {
		var (
			mu    sync.Mutex
			timer *time.Timer
		)

		fire := func() {
			select {
			case <-s.stopped:
				return
			default:
			}
			onChange(s.Load())
		}

		v := viper.New()
		v.SetConfigFile(s.path)
		v.SetConfigType("json")
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("[SETTINGS] %s changed (%s)", e.Name, e.Op)
			mu.Lock()
			defer mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)
		})
		v.WatchConfig()
		log.Printf("[SETTINGS] Watching %s for changes", s.path)
	})
}

// Stop ends change delivery started by Watch.
func (s *SettingsStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}
