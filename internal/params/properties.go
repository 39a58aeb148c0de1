package params

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Keys read from the legacy Jenkins properties file
const (
	DeploymentTypeKey      = "DEPLOYMENT_TYPE"
	ApplicationNameKey     = "APPLICATION_NAME"
	DomainKey              = "DOMAIN"
	HostedZoneIDKey        = "HOSTED_ZONE_ID"
	HealthCheckEndpointKey = "HEALTH_CHECK_ENDPOINT"

	// per-environment suffixes, prefixed with the upper-cased environment name
	CfnEnvNameSuffix = "AWS_CFN_ENV_NAME"
	RegionSuffix     = "AWS_REGION"
)

// Properties is the immutable key/value content of the legacy properties file
type Properties struct {
	values map[string]string
}

// NewProperties copies values into a Properties
func NewProperties(values map[string]string) *Properties {
	p := &Properties{values: make(map[string]string, len(values))}
	for k, v := range values {
		p.values[k] = v
	}
	return p
}

// LoadProperties parses a KEY=VALUE properties file
func LoadProperties(fs afero.Fs, path string) (*Properties, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading properties file: %w", err)
	}

	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing properties file: %w", err)
	}

	return &Properties{values: values}, nil
}

// EnvKey builds the per-environment key, e.g. EnvKey("dev", "AWS_REGION") is DEV_AWS_REGION
func EnvKey(env, suffix string) string {
	return strings.ToUpper(env) + "_" + suffix
}

// Lookup returns the value for key
func (p *Properties) Lookup(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Require returns the value for key and fails if it is missing or empty
func (p *Properties) Require(key string) (string, error) {
	v, ok := p.values[key]
	if !ok || v == "" {
		return "", fmt.Errorf("property %s is not set in the properties file", key)
	}
	return v, nil
}

// Keys returns all keys in sorted order
func (p *Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of properties
func (p *Properties) Len() int {
	return len(p.values)
}
