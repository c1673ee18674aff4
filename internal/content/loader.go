// Package content reads module files and the overlap policy from a
// filesystem and turns them into a validated catalog.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/docschema"
)

// PolicyFile is the overlap policy file name looked up next to the modules.
const PolicyFile = "overlap.yaml"

var utf8BOM = []byte("\xef\xbb\xbf")

// Source is everything read from one content location.
type Source struct {
	Modules []catalog.RawModule
	Policy  catalog.OverlapPolicy
	// Files maps module ids to the file they were read from.
	Files map[string]string
}

// Load reads every module file under dir in fsys, plus the policy file at
// its root when present. Files are read in name order. Every unreadable
// file is reported in the returned error.
func Load(fsys fs.FS) (*Source, error) {
	src := &Source{Files: make(map[string]string)}

	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isModuleFile(p) {
			return nil
		}
		names = append(names, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		var m catalog.RawModule
		if err := decode(name, raw, ModuleSchema, &m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		src.Modules = append(src.Modules, m)
		if m.ID != "" {
			src.Files[m.ID] = name
		}
	}

	raw, err := fs.ReadFile(fsys, PolicyFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		errs = append(errs, fmt.Errorf("%s: %w", PolicyFile, err))
	default:
		if err := decode(PolicyFile, raw, PolicySchema, &src.Policy); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", PolicyFile, err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return src, nil
}

// LoadCatalog loads content from fsys and validates it.
func LoadCatalog(fsys fs.FS) (*catalog.Catalog, error) {
	src, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	return catalog.Validate(src.Modules, src.Policy)
}

// Open returns the content filesystem for dir, or the bundled modules when
// dir is empty.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return Bundled(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func isModuleFile(p string) bool {
	if path.Base(p) == PolicyFile {
		return false
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// decode converts a JSON or YAML document to JSON, checks it against
// schema and unmarshals it into out.
func decode(name string, raw []byte, schema *docschema.Schema, out any) error {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if ext := strings.ToLower(path.Ext(name)); ext == ".yaml" || ext == ".yml" {
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("convert yaml: %w", err)
		}
		raw = converted
	}

	if err := docschema.Validate(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
