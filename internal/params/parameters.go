package params

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// FileName returns the conventional parameter file name for an environment
func FileName(env string) string {
	return fmt.Sprintf("parameters-%s.json", env)
}

// ParametersPath returns the parameter file path for env inside dir
func ParametersPath(dir, env string) string {
	return filepath.Join(dir, FileName(env))
}

// LoadParameters reads and parses parameters-<env>.json from dir
func LoadParameters(fs afero.Fs, dir, env string) (ParameterList, error) {
	path := ParametersPath(dir, env)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters file: %w", err)
	}

	return ParseParameters(data)
}

// ParseParameters decodes a JSON array of ParameterKey/ParameterValue records.
// Keys must be unique.
func ParseParameters(data []byte) (ParameterList, error) {
	var list ParameterList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing parameters JSON: %w", err)
	}

	dups := lo.FindDuplicates(lo.Map(list, func(p Parameter, _ int) string {
		return p.Key
	}))
	if len(dups) > 0 {
		return nil, fmt.Errorf("duplicate parameter keys: %v", dups)
	}

	return list, nil
}

// Lookup returns the value for key. Record order is irrelevant.
func (l ParameterList) Lookup(key string) (string, bool) {
	p, ok := lo.Find(l, func(p Parameter) bool {
		return p.Key == key
	})
	return p.Value, ok
}

// Require is Lookup that fails when key is absent
func (l ParameterList) Require(key string) (string, error) {
	v, ok := l.Lookup(key)
	if !ok {
		return "", fmt.Errorf("parameter %s not found", key)
	}
	return v, nil
}

// ContainerEnvPath returns the ContainerEnvPath parameter, or "" if absent
func (l ParameterList) ContainerEnvPath() string {
	v, _ := l.Lookup(ContainerEnvPathKey)
	return v
}

// EnvironmentName returns the AwsCfnEnvironmentName parameter, or "" if absent
func (l ParameterList) EnvironmentName() string {
	v, _ := l.Lookup(AwsCfnEnvironmentNameKey)
	return v
}
