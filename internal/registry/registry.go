package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	srvErrors "github.com/kubev2v/restquery/pkg/errors"
	"github.com/kubev2v/restquery/pkg/query"
)

var validate = validator.New()

var searchOps = []string{"LIKE", "ILIKE", "NOT LIKE", "NOT ILIKE", "=", "<>", "!="}

// Registry holds the linked schemas by entity name. It is read only once built.
type Registry struct {
	schemas map[string]*query.Schema
}

// Load reads the entity definitions at path, a YAML file or a directory whose
// .yaml and .yml files are read in lexical order.
func Load(path string) (*Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading schemas: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = schemaFiles(path)
		if err != nil {
			return nil, err
		}
	}

	var defs []EntityDef
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading schema file %s: %w", f, err)
		}
		fileDefs, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing schema file %s: %w", f, err)
		}
		defs = append(defs, fileDefs...)
	}

	r, err := New(defs...)
	if err != nil {
		return nil, err
	}

	zap.S().Named("registry").Infow("schemas loaded", "path", path, "files", len(files), "entities", r.Names())
	return r, nil
}

// Parse decodes one schema document and applies defaults. It does not check
// references between entities.
func Parse(r io.Reader) ([]EntityDef, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	for i := range doc.Entities {
		if err := setDefaults(&doc.Entities[i]); err != nil {
			return nil, err
		}
	}
	return doc.Entities, nil
}

// New validates the definitions and links their includes.
func New(defs ...EntityDef) (*Registry, error) {
	var errs []error
	byName := make(map[string]*EntityDef, len(defs))
	for i := range defs {
		d := &defs[i]
		if err := validate.Struct(d); err != nil {
			errs = append(errs, srvErrors.NewSchemaError(d.Name, err.Error()))
			continue
		}
		if _, found := byName[d.Name]; found {
			errs = append(errs, srvErrors.NewSchemaError(d.Name, "declared more than once"))
			continue
		}
		byName[d.Name] = d
	}

	for _, d := range byName {
		if problems := check(d, byName); len(problems) > 0 {
			errs = append(errs, srvErrors.NewSchemaError(d.Name, problems...))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	schemas := make(map[string]*query.Schema, len(byName))
	for name, d := range byName {
		schemas[name] = d.schema()
	}
	for name, d := range byName {
		s := schemas[name]
		for _, inc := range d.Includes {
			if s.Includes == nil {
				s.Includes = make(map[string]*query.Include, len(d.Includes))
			}
			s.Includes[inc.As] = &query.Include{
				As:        inc.As,
				Schema:    schemas[inc.Entity],
				Required:  inc.Required,
				SourceKey: inc.SourceKey,
				TargetKey: inc.TargetKey,
			}
		}
	}

	return &Registry{schemas: schemas}, nil
}

// Get returns the schema of the named entity.
func (r *Registry) Get(name string) (*query.Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, srvErrors.NewEntityNotFoundError(name)
	}
	return s, nil
}

// Names returns the entity names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func schemaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading schemas directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files in %s", dir)
	}
	return files, nil
}

func setDefaults(d *EntityDef) error {
	if err := defaults.Set(d); err != nil {
		return err
	}
	for i := range d.Columns {
		if err := defaults.Set(&d.Columns[i]); err != nil {
			return err
		}
	}
	for i := range d.Search {
		if err := defaults.Set(&d.Search[i]); err != nil {
			return err
		}
	}
	if d.Sort != nil {
		if err := defaults.Set(d.Sort); err != nil {
			return err
		}
	}
	return nil
}

// check reports references to unknown columns and entities.
func check(d *EntityDef, byName map[string]*EntityDef) []string {
	var problems []string
	columns := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if columns[c.Name] {
			problems = append(problems, fmt.Sprintf("duplicate column %q", c.Name))
		}
		columns[c.Name] = true
	}

	unknown := func(what, name string) {
		if name != "" && !columns[name] {
			problems = append(problems, fmt.Sprintf("%s refers to unknown column %q", what, name))
		}
	}

	unknown("primaryKey", d.PrimaryKey)
	unknown("softDelete", d.SoftDelete)
	for _, name := range d.FilterAttrs {
		unknown("filterAttrs", name)
	}
	for _, name := range d.AllowIncludeCols {
		unknown("allowIncludeCols", name)
	}
	for _, name := range d.AllowAttrs {
		if !columns[name] && !slices.ContainsFunc(d.Includes, func(inc IncludeDef) bool { return inc.As == name }) {
			problems = append(problems, fmt.Sprintf("allowAttrs refers to unknown column or include %q", name))
		}
	}
	if d.Sort != nil {
		unknown("sort.default", d.Sort.Default)
		for _, name := range d.Sort.Allow {
			unknown("sort.allow", name)
		}
	}

	for _, sc := range d.Search {
		unknown("search", sc.Column)
		if !slices.Contains(searchOps, strings.ToUpper(sc.Op)) {
			problems = append(problems, fmt.Sprintf("search column %q has unsupported operator %q", sc.Column, sc.Op))
		}
		for _, m := range sc.Match {
			if !strings.Contains(m, "{1}") {
				problems = append(problems, fmt.Sprintf("search template %q of column %q has no {1} placeholder", m, sc.Column))
			}
		}
	}

	seen := make(map[string]bool, len(d.Includes))
	for _, inc := range d.Includes {
		if seen[inc.As] {
			problems = append(problems, fmt.Sprintf("duplicate include %q", inc.As))
		}
		seen[inc.As] = true

		target, ok := byName[inc.Entity]
		if !ok {
			problems = append(problems, fmt.Sprintf("include %q refers to unknown entity %q", inc.As, inc.Entity))
			continue
		}
		sourceKey := inc.SourceKey
		if sourceKey == "" {
			sourceKey = inc.As + "Id"
		}
		unknown(fmt.Sprintf("include %q sourceKey", inc.As), sourceKey)

		targetKey := inc.TargetKey
		if targetKey == "" {
			targetKey = target.PrimaryKey
		}
		if !slices.ContainsFunc(target.Columns, func(c ColumnDef) bool { return c.Name == targetKey }) {
			problems = append(problems, fmt.Sprintf("include %q targetKey %q is not a column of %q", inc.As, targetKey, inc.Entity))
		}
	}

	if d.Stats != nil {
		for name, expr := range d.Stats.Dimensions {
			if name == "" || strings.TrimSpace(expr) == "" {
				problems = append(problems, fmt.Sprintf("dimension %q has no expression", name))
			}
		}
		for name, expr := range d.Stats.Metrics {
			if name == "" || strings.TrimSpace(expr) == "" {
				problems = append(problems, fmt.Sprintf("metric %q has no expression", name))
			}
		}
	}

	sort.Strings(problems)
	return problems
}
