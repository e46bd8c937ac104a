package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bnema/poolify-cli/internal/adapters/navigation"
	"github.com/bnema/poolify-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) (string, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(format)); normalized {
	case outputText, outputJSON, outputYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported output %q (want text, json or yaml)", format)
	}
}

func writeStructured(w io.Writer, format string, value any) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output %q", format)
	}
}

// parsePlatformFilter accepts a platform name or "all"; empty means all.
func parsePlatformFilter(raw string) (domain.Platform, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.PlatformAll, nil
	}
	return parsePlatform(raw, true)
}

func parsePlatform(raw string, allowAll bool) (domain.Platform, error) {
	platform := domain.ParsePlatform(raw)
	if platform == domain.PlatformOther && !strings.EqualFold(strings.TrimSpace(raw), string(domain.PlatformOther)) {
		return "", fmt.Errorf("unknown platform %q", raw)
	}
	if platform == domain.PlatformAll && !allowAll {
		return "", fmt.Errorf("platform %q is only valid as a filter", raw)
	}
	return platform, nil
}

func replayNavigation(w io.Writer, nav *navigation.Writer) {
	for _, dest := range nav.History() {
		_, _ = fmt.Fprintln(w, navigation.Describe(dest))
	}
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
