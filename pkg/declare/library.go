package declare

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// catalogFile is the on-disk shape of a catalog file.
type catalogFile struct {
	Templates []*Template `yaml:"templates"`
}

// Library holds the template catalog. The built-in catalog is always present;
// files from an overlay directory add templates or replace built-in ones.
// Safe for concurrent use.
type Library struct {
	mu        sync.RWMutex
	templates map[string]*Template
	builtin   map[string]*Template
	dir       string
	watcher   *fsnotify.Watcher
	stopChan  chan struct{}
	onChange  func(event string, path string)
	logger    *slog.Logger
}

// New creates an empty library.
func New(logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		templates: make(map[string]*Template),
		builtin:   make(map[string]*Template),
		logger:    logger,
	}
}

// NewDefault creates a library loaded with the built-in catalog.
func NewDefault(logger *slog.Logger) (*Library, error) {
	l := New(logger)
	templates, err := decodeCatalog(builtinCatalog)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	for _, t := range templates {
		if err := l.Register(t); err != nil {
			return nil, fmt.Errorf("built-in catalog: %w", err)
		}
		l.builtin[t.Name] = t
	}
	return l, nil
}

// NewWithDirectory creates a default library and overlays the catalog files
// found in dir.
func NewWithDirectory(logger *slog.Logger, dir string) (*Library, error) {
	l, err := NewDefault(logger)
	if err != nil {
		return nil, err
	}
	if err := l.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return l, nil
}

// Register adds a template. Registering a name that already exists fails.
func (l *Library) Register(t *Template) error {
	if t == nil {
		return fmt.Errorf("template cannot be nil")
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.templates[t.Name]; exists {
		return fmt.Errorf("template %q already registered", t.Name)
	}
	l.templates[t.Name] = t
	return nil
}

// put adds or replaces a template.
func (l *Library) put(t *Template) error {
	if t == nil {
		return fmt.Errorf("template cannot be nil")
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[t.Name] = t
	return nil
}

// Get returns a template by name. Lookup is case-insensitive.
func (l *Library) Get(name string) (*Template, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[strings.ToLower(name)]
	return t, ok
}

// Names returns all template names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all templates sorted by name.
func (l *Library) List() []*Template {
	l.mu.RLock()
	defer l.mu.RUnlock()
	templates := make([]*Template, 0, len(l.templates))
	for _, t := range l.templates {
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates
}

// Count returns the number of templates.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}

// Fill looks up a template and fills it with the given activity lists.
func (l *Library) Fill(name string, lists ...[]string) (*Instance, error) {
	t, ok := l.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	return t.Fill(lists...)
}

// LoadDirectory loads all YAML catalog files from dir.
// A missing directory is not an error.
func (l *Library) LoadDirectory(dir string) error {
	l.dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := l.LoadFile(path); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading templates: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile loads a single catalog file. Templates in the file replace
// templates of the same name.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	templates, err := decodeCatalog(data)
	if err != nil {
		return err
	}
	for _, t := range templates {
		if err := l.put(t); err != nil {
			return fmt.Errorf("registering template: %w", err)
		}
	}

	l.logger.Debug("Loaded template catalog",
		slog.String("path", path),
		slog.Int("templates", len(templates)))
	return nil
}

// Reload resets the library to the built-in catalog and reloads the overlay
// directory.
func (l *Library) Reload() error {
	if l.dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}

	l.mu.Lock()
	l.templates = make(map[string]*Template, len(l.builtin))
	for name, t := range l.builtin {
		l.templates[name] = t
	}
	l.mu.Unlock()

	return l.LoadDirectory(l.dir)
}

// SetOnChange sets a callback invoked after the watcher applies a change.
func (l *Library) SetOnChange(fn func(event string, path string)) {
	l.onChange = fn
}

// Watch starts watching the overlay directory for catalog changes.
func (l *Library) Watch() error {
	if l.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(l.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", l.dir, err)
	}

	l.watcher = watcher
	l.stopChan = make(chan struct{})
	go l.watchLoop(watcher, l.stopChan)
	return nil
}

func (l *Library) watchLoop(watcher *fsnotify.Watcher, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isCatalogFile(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				l.handleFileChange(event.Name, "create")
			case event.Op&fsnotify.Write == fsnotify.Write:
				l.handleFileChange(event.Name, "modify")
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				l.handleFileRemove(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("Template catalog watcher error", slog.String("error", err.Error()))
		}
	}
}

func (l *Library) handleFileChange(path string, event string) {
	if err := l.LoadFile(path); err != nil {
		l.logger.Warn("Failed to reload template catalog",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	if l.onChange != nil {
		l.onChange(event, path)
	}
}

// handleFileRemove rebuilds the whole library since templates are not
// tracked per file.
func (l *Library) handleFileRemove(path string) {
	if err := l.Reload(); err != nil {
		l.logger.Warn("Failed to reload template catalog",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
	if l.onChange != nil {
		l.onChange("remove", path)
	}
}

// StopWatch stops watching the overlay directory.
func (l *Library) StopWatch() {
	if l.stopChan != nil {
		close(l.stopChan)
		l.stopChan = nil
	}
	if l.watcher != nil {
		l.watcher.Close()
		l.watcher = nil
	}
}

func decodeCatalog(data []byte) ([]*Template, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	for i, t := range file.Templates {
		if t == nil {
			return nil, fmt.Errorf("template %d is empty", i+1)
		}
		t.Name = strings.ToLower(strings.TrimSpace(t.Name))
	}
	return file.Templates, nil
}

func isCatalogFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
