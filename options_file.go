package stablejson

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// Supported configuration file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// LoadOptions reads options from a TOML, YAML or JSON file. The format is
// chosen from the extension (.toml, .yaml, .yml, .json). Keys are the
// ParseOptions keys at the top level of the document.
func LoadOptions(path string) ([]Option, error) {
	format, err := formatFromExt(path)
	if err != nil {
		return nil, err
	}
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, "stablejson: unable to load config file %s", path)
	}
	return ParseOptions(k.Raw())
}

// LoadOptionsBytes is LoadOptions for an in-memory document of the given format.
func LoadOptionsBytes(data []byte, format string) ([]Option, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, errors.Wrapf(err, "stablejson: unable to parse %s config", format)
	}
	return ParseOptions(k.Raw())
}

func formatFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Newf("stablejson: unsupported config file extension %q", filepath.Ext(path))
}

func parserFor(format string) (koanf.Parser, error) {
	switch strings.ToLower(format) {
	case FormatTOML:
		return toml.Parser(), nil
	case FormatYAML, "yml":
		return yamlParser{}, nil
	case FormatJSON:
		return jsonParser{}, nil
	}
	return nil, errors.Newf("stablejson: unsupported config format %q", format)
}

// yamlParser implements koanf.Parser over yaml.v3.
type yamlParser struct{}

func (yamlParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func (yamlParser) Marshal(m map[string]any) ([]byte, error) {
	return yaml.Marshal(m)
}

// jsonParser implements koanf.Parser over json-iterator. Numbers decode as
// float64, which ParseOptions accepts when integral.
type jsonParser struct{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (jsonParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := jsonAPI.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func (jsonParser) Marshal(m map[string]any) ([]byte, error) {
	return jsonAPI.Marshal(m)
}
