// Package declare loads record type declarations from YAML files.
//
// A declaration file holds a top-level "types" list whose entries decode into
// schema.TypeSpec. Variants are written by name:
//
//	types:
//	  - id: 2
//	    name: qa.core.Foo
//	    parent: qa.core.Entity
//	    fields:
//	      - {member: name, variant: VARCHAR, length: 30}
package declare

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// typesKey is the top-level key holding the declaration list.
const typesKey = "types"

// LoadFile reads the declarations in one YAML file.
func LoadFile(path string) ([]schema.TypeSpec, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading declarations %s: %w", path, err)
	}

	var specs []schema.TypeSpec
	err := k.UnmarshalWithConf(typesKey, &specs, koanf.UnmarshalConf{
		Tag: "mapstructure",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &specs,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to decode declarations %s: %w", path, err)
	}
	return specs, nil
}

// Load reads every path in order and concatenates the declarations.
// A directory contributes its *.yaml and *.yml files in name order.
func Load(logger *slog.Logger, paths ...string) ([]schema.TypeSpec, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var specs []schema.TypeSpec
	for _, p := range paths {
		files, err := expand(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			s, err := LoadFile(f)
			if err != nil {
				return nil, err
			}
			logger.Debug("loaded declarations", slog.String("file", f), slog.Int("types", len(s)))
			specs = append(specs, s...)
		}
	}
	return specs, nil
}

// Build loads paths and builds the registry.
func Build(logger *slog.Logger, paths ...string) (*schema.Registry, error) {
	specs, err := Load(logger, paths...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return schema.Build(specs, schema.WithLogger(logger))
}

func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
