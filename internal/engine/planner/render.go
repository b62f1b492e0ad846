package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding for build plans.
type Format string

// Supported output formats.
const (
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatProperties Format = "properties"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatProperties:
		return f, nil
	default:
		return "", zerr.With(domain.ErrUnsupportedOutputFormat, "format", s)
	}
}

// Render writes plan to w in the given format.
func Render(w io.Writer, plan *domain.BuildPlan, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(plan)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(plan)
		if err == nil {
			err = enc.Close()
		}
	case FormatProperties:
		err = renderProperties(w, plan)
	default:
		return zerr.With(domain.ErrUnsupportedOutputFormat, "format", string(format))
	}

	if err != nil {
		return zerr.Wrap(err, domain.ErrPlanEncodeFailed.Error())
	}
	return nil
}

// renderProperties writes the plan as sorted key=value lines.
func renderProperties(w io.Writer, plan *domain.BuildPlan) error {
	lines := make([]string, 0, len(plan.Settings)+len(plan.Packaging)+len(plan.Dependencies)+2)
	lines = append(lines, "buildType="+plan.BuildType)
	if plan.Fingerprint != "" {
		lines = append(lines, "fingerprint="+plan.Fingerprint)
	}

	for _, key := range slices.Sorted(maps.Keys(plan.Settings)) {
		lines = append(lines, key+"="+escapeProperty(plan.Settings[key]))
	}
	for _, unit := range plan.Packaging {
		lines = append(lines, fmt.Sprintf("packaging.%s.output=%s", unit.Name, unit.Output))
	}
	for i, dep := range plan.Dependencies {
		lines = append(lines, fmt.Sprintf("dependencies.%d.%s=%s", i, dep.Scope, dep.PURL))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

var propertyEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}
