package pipeline

import (
	"fmt"

	"github.com/stuttgart-things/jenkins2gitlab/internal/params"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Placeholders maps each token in the reference .gitlab-ci.yml to the
// legacy property that fills it.
var Placeholders = []string{
	params.DomainKey,
	params.ApplicationNameKey,
	params.HostedZoneIDKey,
	params.HealthCheckEndpointKey,
}

// Render substitutes the project placeholders in a reference pipeline file.
// Unknown tags are left untouched.
func Render(template string, props *params.Properties) (string, error) {
	values := make(map[string]interface{}, len(Placeholders))
	for _, key := range Placeholders {
		v, err := props.Require(key)
		if err != nil {
			return "", fmt.Errorf("rendering pipeline file: %w", err)
		}
		values[key] = v
	}

	return fasttemplate.ExecuteStringStd(template, startTag, endTag, values), nil
}
