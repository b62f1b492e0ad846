// Package planner flattens a resolved BuildConfig into the build plan consumed by the packager.
package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	packageurl "github.com/package-url/packageurl-go"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Planner turns BuildConfigs into BuildPlans.
type Planner struct{}

// New creates a new Planner.
func New() *Planner {
	return &Planner{}
}

// Plan builds the plan for the build type cfg was resolved for.
func (p *Planner) Plan(cfg *domain.BuildConfig) (*domain.BuildPlan, error) {
	bt, ok := cfg.BuildTypes[cfg.BuildType]
	if !ok {
		return nil, zerr.With(domain.ErrBuildTypeNotFound, "build_type", cfg.BuildType)
	}

	plan := &domain.BuildPlan{
		BuildType:    cfg.BuildType,
		Settings:     settings(cfg, bt),
		Packaging:    PackagingUnits(cfg),
		Dependencies: dependencies(cfg.Dependencies),
	}

	fingerprint, err := Fingerprint(plan)
	if err != nil {
		return nil, err
	}
	plan.Fingerprint = fingerprint

	return plan, nil
}

// PackagingUnits returns the units the packager emits for cfg. With splits
// enabled there is one unit per ABI in canonical order, followed by a universal
// unit when requested. Otherwise a single universal unit is produced.
func PackagingUnits(cfg *domain.BuildConfig) []domain.PackagingUnit {
	if !cfg.SplitsEnabled {
		return []domain.PackagingUnit{universalUnit(cfg.BuildType)}
	}

	abis := domain.CanonicalABIs(cfg.AbiList)
	units := make([]domain.PackagingUnit, 0, len(abis)+1)
	for _, abi := range abis {
		units = append(units, domain.PackagingUnit{
			Name:   string(abi),
			ABI:    string(abi),
			Output: outputName(string(abi), cfg.BuildType),
		})
	}
	if cfg.UniversalApkEnabled {
		units = append(units, universalUnit(cfg.BuildType))
	}
	return units
}

func universalUnit(buildType string) domain.PackagingUnit {
	return domain.PackagingUnit{
		Name:      domain.UniversalUnitName,
		Universal: true,
		Output:    outputName(domain.UniversalUnitName, buildType),
	}
}

func outputName(unit, buildType string) string {
	return fmt.Sprintf("app-%s-%s.apk", unit, buildType)
}

func settings(cfg *domain.BuildConfig, bt domain.BuildType) map[string]string {
	s := map[string]string{
		"android.namespace":     cfg.Namespace,
		"android.applicationId": cfg.ApplicationID,
		"android.compileSdk":    strconv.Itoa(cfg.CompileSdk),
		"android.minSdk":        strconv.Itoa(cfg.MinSdk),
		"android.targetSdk":     strconv.Itoa(cfg.TargetSdk),
		"android.versionCode":   strconv.Itoa(cfg.VersionCode),
		"android.versionName":   cfg.VersionName,
		"buildType.minify":      strconv.FormatBool(bt.Minify),
		"buildType.debuggable":  strconv.FormatBool(bt.Debuggable),
		"splits.abi.enable":     strconv.FormatBool(cfg.SplitsEnabled),
		"splits.abi.universal":  strconv.FormatBool(cfg.UniversalApkEnabled),
		"plugins":               strings.Join(cfg.Plugins, ","),
		"repositories":          strings.Join(cfg.Repositories, ","),
	}

	abis := make([]string, len(cfg.AbiList))
	for i, abi := range cfg.AbiList {
		abis[i] = string(abi)
	}
	s["splits.abi.include"] = strings.Join(abis, ",")

	setIfNotEmpty(s, "android.ndkVersion", cfg.NdkVersion)
	setIfNotEmpty(s, "java.sourceCompatibility", cfg.Java.SourceCompatibility)
	setIfNotEmpty(s, "java.targetCompatibility", cfg.Java.TargetCompatibility)
	setIfNotEmpty(s, "kotlin.jvmTarget", cfg.Java.JvmTarget)
	setIfNotEmpty(s, "framework.name", cfg.Framework.Name)
	setIfNotEmpty(s, "framework.source", cfg.Framework.Source)

	if cfg.SigningConfigRef != "" {
		profile := cfg.SigningProfiles[cfg.SigningConfigRef]
		s["signing.config"] = cfg.SigningConfigRef
		s["signing.storeFile"] = profile.StoreFile
		s["signing.keyAlias"] = profile.KeyAlias
	}

	return s
}

func setIfNotEmpty(s map[string]string, key, value string) {
	if value != "" {
		s[key] = value
	}
}

func dependencies(deps []domain.Dependency) []domain.PlannedDependency {
	out := make([]domain.PlannedDependency, len(deps))
	for i, d := range deps {
		purl := packageurl.NewPackageURL(
			packageurl.TypeMaven,
			d.Coordinate.Group,
			d.Coordinate.Artifact,
			d.Coordinate.Version,
			nil,
			"",
		)
		out[i] = domain.PlannedDependency{
			Scope:    string(d.Scope),
			Group:    d.Coordinate.Group,
			Artifact: d.Coordinate.Artifact,
			Version:  d.Coordinate.Version,
			PURL:     purl.ToString(),
		}
	}
	return out
}

// Fingerprint returns the xxhash of the plan's canonical JSON encoding,
// ignoring any fingerprint already set.
func Fingerprint(plan *domain.BuildPlan) (string, error) {
	canonical := *plan
	canonical.Fingerprint = ""

	data, err := json.Marshal(&canonical)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrPlanEncodeFailed.Error())
	}

	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
