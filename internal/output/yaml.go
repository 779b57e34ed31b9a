package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

// FormatAssembly formats an assembled configuration as YAML.
func (f *YAMLFormatter) FormatAssembly(r *AssemblyReport) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}
	return string(data), nil
}

// FormatHost formats a host report as YAML.
func (f *YAMLFormatter) FormatHost(r *HostReport) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal host report to YAML: %w", err)
	}
	return string(data), nil
}
