package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// FormatAssembly formats an assembled configuration as JSON.
func (f *JSONFormatter) FormatAssembly(r *AssemblyReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatHost formats a host report as JSON.
func (f *JSONFormatter) FormatHost(r *HostReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal host report to JSON: %w", err)
	}
	return string(data) + "\n", nil
}
