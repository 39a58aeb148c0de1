package params

import (
	"encoding/json"
	"fmt"
)

// Well-known keys in a CloudFormation parameter file
const (
	ContainerEnvPathKey      = "ContainerEnvPath"
	AwsCfnEnvironmentNameKey = "AwsCfnEnvironmentName"
)

// Parameter is a single CloudFormation deployment parameter record
type Parameter struct {
	Key   string `json:"ParameterKey"`
	Value string `json:"ParameterValue"`
}

// UnmarshalJSON accepts non-string scalar values (numbers, booleans) and
// keeps their literal text.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key   string          `json:"ParameterKey"`
		Value json.RawMessage `json:"ParameterValue"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Key == "" {
		return fmt.Errorf("parameter record without ParameterKey")
	}

	p.Key = raw.Key
	p.Value = ""

	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw.Value, &s); err == nil {
		p.Value = s
		return nil
	}

	var v any
	if err := json.Unmarshal(raw.Value, &v); err != nil {
		return fmt.Errorf("parameter %s: %w", raw.Key, err)
	}
	switch v.(type) {
	case map[string]any, []any:
		return fmt.Errorf("parameter %s: value must be a scalar", raw.Key)
	}
	p.Value = string(raw.Value)
	return nil
}

// ParameterList is the ordered content of one parameters-<env>.json file
type ParameterList []Parameter
