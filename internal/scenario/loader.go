package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader handles loading scenarios from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new scenario loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all scenario files.
// Invalid files are skipped. Returns scenarios sorted by ID.
func (l *Loader) LoadAll() ([]Scenario, error) {
	var scenarios []Scenario

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		sc, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		scenarios = append(scenarios, sc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scenario: walking directory %s: %w", l.Root, err)
	}

	sortByID(scenarios)
	return scenarios, nil
}

// LoadFile loads a single scenario file.
func (l *Loader) LoadFile(path string) (Scenario, error) {
	return LoadFile(path)
}

// LoadByID loads a specific scenario by ID.
func (l *Loader) LoadByID(id string) (Scenario, error) {
	scenarios, err := l.LoadAll()
	if err != nil {
		return Scenario{}, err
	}
	for _, sc := range scenarios {
		if sc.ID == id {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s in %s", ErrNotFound, id, l.Root)
}

// LoadFile reads and parses one scenario file.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: reading file %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: parsing file %s: %w", path, err)
	}
	sc.FilePath = path
	return sc, nil
}

// Builtins returns the scenarios compiled into the binary, sorted by ID.
func Builtins() ([]Scenario, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("scenario: reading built-ins: %w", err)
	}

	scenarios := make([]Scenario, 0, len(entries))
	for _, e := range entries {
		name := path.Join("builtin", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("scenario: reading %s: %w", name, err)
		}
		sc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("scenario: parsing %s: %w", name, err)
		}
		scenarios = append(scenarios, sc)
	}

	sortByID(scenarios)
	return scenarios, nil
}

// Available lists the scenarios in dirs followed by the built-ins whose IDs
// are not shadowed by a file.
func Available(dirs ...string) ([]Scenario, error) {
	var all []Scenario
	seen := make(map[string]bool)

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		found, err := NewLoader(dir).LoadAll()
		if err != nil {
			return nil, err
		}
		for _, sc := range found {
			if !seen[sc.ID] {
				seen[sc.ID] = true
				all = append(all, sc)
			}
		}
	}

	builtins, err := Builtins()
	if err != nil {
		return nil, err
	}
	for _, sc := range builtins {
		if !seen[sc.ID] {
			all = append(all, sc)
		}
	}
	return all, nil
}

// Find returns the scenario with the given ID. Directories are searched in
// order before the built-ins.
func Find(id string, dirs ...string) (Scenario, error) {
	all, err := Available(dirs...)
	if err != nil {
		return Scenario{}, err
	}
	for _, sc := range all {
		if sc.ID == id {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func sortByID(scenarios []Scenario) {
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ID < scenarios[j].ID
	})
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	return slices.Contains(FormatExtensions(), strings.ToLower(ext))
}
