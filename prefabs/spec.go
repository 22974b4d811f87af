package prefabs

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadSpec reads filename through Load and decodes it by extension: TOML for
// .toml, YAML otherwise.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec, err := DecodeSpec[T](filename, data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// DecodeSpec decodes data using the format implied by name's extension.
// Unknown keys are rejected so typos in spec files surface as errors.
func DecodeSpec[T any](name string, data []byte) (T, error) {
	var spec T
	if isTOML(name) {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return spec, err
		}
		return spec, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return spec, err
	}
	return spec, nil
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func isTOML(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".toml"
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
