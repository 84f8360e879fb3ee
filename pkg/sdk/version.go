package sdk

import (
	"fmt"
	"slices"
	"strings"
)

// SupportedSchemaMajor is the major schema version this SDK supports.
const SupportedSchemaMajor = "1"

// requiredTools are the tools the typed helpers call.
var requiredTools = []string{
	"velocity_team",
	"velocity_developer",
	"velocity_insights",
	"velocity_kpi",
	"velocity_eta_risk",
	"velocity_sprint",
}

// checkSchema reports why info cannot serve this SDK, or nil. The major
// version must match and every tool the helpers call must be advertised.
func checkSchema(info *SchemaInfo) error {
	serverMajor := majorVersion(info.SchemaVersion)
	if serverMajor != SupportedSchemaMajor {
		return fmt.Errorf("incompatible schema: server=%s (major %s), sdk supports major %s",
			info.SchemaVersion, serverMajor, SupportedSchemaMajor)
	}
	var missing []string
	for _, tool := range requiredTools {
		if !slices.Contains(info.Tools, tool) {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("incompatible schema: server %s lacks %s",
			info.ServerVersion, strings.Join(missing, ", "))
	}
	return nil
}

// majorVersion extracts the major version from a semver string.
func majorVersion(v string) string {
	major, _, _ := strings.Cut(v, ".")
	return major
}
