// Package resolver turns a declarative build document into a validated BuildConfig.
package resolver

import (
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/droidcfg/internal/core/domain"
	"golang.org/x/mod/semver"
)

// Well-known plugin identifiers.
const (
	PluginAndroidApplication = "com.android.application"
	PluginKotlinAndroid      = "kotlin-android"
	PluginKotlinAndroidID    = "org.jetbrains.kotlin.android"
	PluginFlutter            = "dev.flutter.flutter-gradle-plugin"
)

// Default artifact repositories, in lookup order.
const (
	GoogleMavenURL  = "https://dl.google.com/android/maven2"
	MavenCentralURL = "https://repo1.maven.org/maven2"
)

const (
	defaultVersionCode = 1
	defaultVersionName = "1.0"
	maxVersionCode     = 2100000000
)

var (
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
	ndkVersionRegex  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
)

// Resolver validates documents and substitutes defaults. It holds no state.
type Resolver struct{}

// New creates a new Resolver.
func New() *Resolver {
	return &Resolver{}
}

// DefaultRepositories returns the repositories used when a document declares none.
func DefaultRepositories() []string {
	return []string{GoogleMavenURL, MavenCentralURL}
}

// Resolve validates doc and returns the BuildConfig for buildType.
// An empty buildType selects release. Every violation found is reported in a
// single *domain.ValidationError.
func (r *Resolver) Resolve(doc *domain.Document, buildType string) (*domain.BuildConfig, error) {
	if buildType == "" {
		buildType = domain.BuildTypeRelease
	}

	v := domain.NewValidator()
	cfg := &domain.BuildConfig{
		Namespace:  doc.Namespace,
		NdkVersion: doc.NdkVersion,
		BuildType:  buildType,
		Plugins:    slices.Clone(doc.Plugins),
		Java: domain.JavaCompatibility{
			SourceCompatibility: doc.SourceCompatibility,
			TargetCompatibility: doc.TargetCompatibility,
			JvmTarget:           doc.JvmTarget,
		},
		Framework: domain.Framework{
			Name:   doc.Framework.Name,
			Source: doc.Framework.Source,
		},
		SplitsEnabled:       doc.Splits.Enable,
		UniversalApkEnabled: doc.Splits.UniversalApk,
	}

	resolveSdkLevels(doc, cfg, v)
	resolveIdentity(doc, cfg, v)
	resolveVersion(doc, cfg, v)
	resolveSigning(doc, cfg, v)
	resolveAbis(doc, cfg, v)
	checkPlugins(cfg.Plugins, v)
	checkJava(cfg.Java, v)

	if cfg.NdkVersion != "" && !ndkVersionRegex.MatchString(cfg.NdkVersion) {
		v.Addf(domain.InvariantNdkVersion, "ndkVersion", "malformed NDK version %q", cfg.NdkVersion)
	}

	resolveRepositories(doc, cfg, v)
	resolveDependencies(doc, cfg, v)

	if err := v.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveSdkLevels(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	compile, okCompile := resolveLevel("compileSdk", doc.CompileSdk, doc.Framework.CompileSdk, v)
	minSdk, okMin := resolveLevel("minSdk", doc.MinSdk, doc.Framework.MinSdk, v)
	target, okTarget := resolveLevel("targetSdk", doc.TargetSdk, doc.Framework.TargetSdk, v)

	cfg.CompileSdk, cfg.MinSdk, cfg.TargetSdk = compile, minSdk, target

	if okMin && okTarget && minSdk > target {
		v.Add(domain.InvariantSdkOrdering, "minSdk", "minSdk exceeds targetSdk")
	}
	if okTarget && okCompile && target > compile {
		v.Add(domain.InvariantSdkOrdering, "targetSdk", "targetSdk exceeds compileSdk")
	}
}

// resolveLevel parses an SDK level. Missing values and the framework placeholder
// take the framework-provided fallback.
func resolveLevel(field, raw, fallback string, v *domain.Validator) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == domain.SdkFramework {
		raw = strings.TrimSpace(fallback)
		if raw == "" || raw == domain.SdkFramework {
			v.Addf(domain.InvariantSdkLevel, field, "%s is not set and the framework provides no default", field)
			return 0, false
		}
	}

	level, err := strconv.Atoi(raw)
	if err != nil {
		codenameLevel, ok := domain.APILevelForCodename(raw)
		if !ok {
			v.Addf(domain.InvariantSdkLevel, field, "unknown SDK level %q", raw)
			return 0, false
		}
		level = codenameLevel
	}

	if level < 1 {
		v.Addf(domain.InvariantSdkLevel, field, "SDK level must be positive, got %d", level)
		return 0, false
	}
	return level, true
}

func resolveIdentity(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	switch {
	case doc.Namespace == "":
		v.Add(domain.InvariantNamespace, "namespace", "namespace is required")
	case !packageNameRegex.MatchString(doc.Namespace):
		v.Addf(domain.InvariantNamespace, "namespace", "%q is not a valid package name", doc.Namespace)
	}

	cfg.ApplicationID = doc.ApplicationID
	if cfg.ApplicationID == "" {
		// Inherits the namespace, which is checked above.
		cfg.ApplicationID = doc.Namespace
		return
	}
	if !packageNameRegex.MatchString(cfg.ApplicationID) {
		v.Addf(domain.InvariantApplicationID, "applicationId", "%q is not a valid application ID", cfg.ApplicationID)
	}
}

func resolveVersion(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	cfg.VersionCode = defaultVersionCode
	if doc.VersionCode != nil {
		cfg.VersionCode = *doc.VersionCode
	}
	if cfg.VersionCode < 1 || cfg.VersionCode > maxVersionCode {
		v.Addf(domain.InvariantVersionCode, "versionCode",
			"versionCode must be between 1 and %d, got %d", maxVersionCode, cfg.VersionCode)
	}

	cfg.VersionName = doc.VersionName
	if cfg.VersionName == "" {
		cfg.VersionName = defaultVersionName
	}
	if !IsWellFormedVersion(cfg.VersionName) {
		v.Addf(domain.InvariantVersionName, "versionName", "malformed version %q", cfg.VersionName)
	}
}

// IsWellFormedVersion reports whether s is a concrete version such as 1.0,
// 1.6.1, 31.1-jre or 1.0-SNAPSHOT. Dynamic selectors are rejected.
func IsWellFormedVersion(s string) bool {
	if s == "" || strings.HasPrefix(s, "v") {
		return false
	}
	return semver.IsValid("v" + padVersionCore(s))
}

// padVersionCore fills a numeric core of one or two parts up to
// major.minor.patch so a qualifier after it is still accepted by semver.
func padVersionCore(s string) string {
	core, suffix := s, ""
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, suffix = s[:i], s[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) >= 3 {
		return s
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 64); err != nil {
			return s
		}
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, ".") + suffix
}

func resolveSigning(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	cfg.SigningProfiles = map[string]domain.SigningProfile{
		domain.SigningProfileDebug: domain.DefaultDebugSigningProfile(),
	}
	for _, name := range slices.Sorted(maps.Keys(doc.SigningConfigs)) {
		profile := doc.SigningConfigs[name]
		field := "signingConfigs." + name
		if profile.StoreFile == "" {
			v.Add(domain.InvariantSigningProfile, field+".storeFile", "storeFile is required")
		}
		if profile.KeyAlias == "" {
			v.Add(domain.InvariantSigningProfile, field+".keyAlias", "keyAlias is required")
		}
		cfg.SigningProfiles[name] = profile
	}

	cfg.BuildTypes = map[string]domain.BuildType{
		domain.BuildTypeDebug: {
			Name:             domain.BuildTypeDebug,
			SigningConfigRef: domain.SigningProfileDebug,
			Debuggable:       true,
		},
		domain.BuildTypeRelease: {
			Name: domain.BuildTypeRelease,
		},
	}
	for _, name := range slices.Sorted(maps.Keys(doc.BuildTypes)) {
		decl := doc.BuildTypes[name]
		bt := cfg.BuildTypes[name]
		bt.Name = name
		bt.Minify = decl.Minify
		if decl.SigningConfig != "" {
			bt.SigningConfigRef = decl.SigningConfig
		}
		if decl.Debuggable != nil {
			bt.Debuggable = *decl.Debuggable
		}
		cfg.BuildTypes[name] = bt
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.BuildTypes)) {
		ref := cfg.BuildTypes[name].SigningConfigRef
		if ref == "" {
			continue
		}
		if _, ok := cfg.SigningProfiles[ref]; !ok {
			v.Addf(domain.InvariantSigningProfile, "buildTypes."+name+".signingConfig",
				"unknown signing profile %q", ref)
		}
	}

	selected, ok := cfg.BuildTypes[cfg.BuildType]
	if !ok {
		v.Addf(domain.InvariantSigningProfile, "buildType", "unknown build type %q", cfg.BuildType)
		return
	}
	cfg.SigningConfigRef = selected.SigningConfigRef
}

func resolveAbis(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	abis := make([]domain.ABI, 0, len(doc.Splits.Include))
	for _, raw := range doc.Splits.Include {
		abi, ok := domain.ParseABI(strings.TrimSpace(raw))
		if !ok {
			v.Addf(domain.InvariantABI, "splits.abi.include", "unsupported ABI %q", raw)
			continue
		}
		abis = append(abis, abi)
	}
	cfg.AbiList = domain.CanonicalABIs(abis)

	if doc.Splits.Enable && len(doc.Splits.Include) == 0 {
		v.Add(domain.InvariantABI, "splits.abi.include", "ABI split is enabled without any ABI")
	}
}

func checkPlugins(plugins []string, v *domain.Validator) {
	seen := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		if seen[p] {
			v.Addf(domain.InvariantPluginOrder, "plugins", "plugin %q is applied more than once", p)
		}
		seen[p] = true
	}

	androidIdx := slices.Index(plugins, PluginAndroidApplication)
	if androidIdx < 0 {
		v.Addf(domain.InvariantPluginOrder, "plugins", "plugin %q must be applied", PluginAndroidApplication)
	}

	flutterIdx := slices.Index(plugins, PluginFlutter)
	if flutterIdx < 0 {
		return
	}
	if androidIdx > flutterIdx {
		v.Addf(domain.InvariantPluginOrder, "plugins",
			"plugin %q must be applied after %q", PluginFlutter, PluginAndroidApplication)
	}
	for _, kotlin := range []string{PluginKotlinAndroid, PluginKotlinAndroidID} {
		if idx := slices.Index(plugins, kotlin); idx > flutterIdx {
			v.Addf(domain.InvariantPluginOrder, "plugins",
				"plugin %q must be applied after %q", PluginFlutter, kotlin)
		}
	}
}

func checkJava(java domain.JavaCompatibility, v *domain.Validator) {
	if java.JvmTarget == "" || java.TargetCompatibility == "" {
		return
	}
	if normalizeJavaVersion(java.JvmTarget) != normalizeJavaVersion(java.TargetCompatibility) {
		v.Addf(domain.InvariantJavaCompatibility, "jvmTarget",
			"jvmTarget %q does not match targetCompatibility %q", java.JvmTarget, java.TargetCompatibility)
	}
}

// normalizeJavaVersion maps VERSION_1_8, 1.8 and 8 to the same value.
func normalizeJavaVersion(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "JavaVersion.")
	s = strings.TrimPrefix(s, "VERSION_")
	s = strings.ReplaceAll(s, "_", ".")
	return strings.TrimPrefix(s, "1.")
}

func resolveRepositories(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	if len(doc.Repositories) == 0 {
		cfg.Repositories = DefaultRepositories()
		return
	}

	cfg.Repositories = make([]string, 0, len(doc.Repositories))
	for i, raw := range doc.Repositories {
		field := fmt.Sprintf("repositories[%d]", i)
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.Addf(domain.InvariantRepository, field, "%q is not an absolute http(s) URL", raw)
			continue
		}
		cfg.Repositories = append(cfg.Repositories, strings.TrimSuffix(u.String(), "/"))
	}
}

func resolveDependencies(doc *domain.Document, cfg *domain.BuildConfig, v *domain.Validator) {
	versions := make(map[string]string, len(doc.Dependencies))
	cfg.Dependencies = make([]domain.Dependency, 0, len(doc.Dependencies))

	for i, decl := range doc.Dependencies {
		field := fmt.Sprintf("dependencies[%d]", i)

		scope, ok := domain.ParseScope(decl.Scope)
		if !ok {
			v.Addf(domain.InvariantDependency, field+".scope", "unsupported scope %q", decl.Scope)
		}

		coord, err := domain.ParseCoordinate(decl.Coordinate)
		if err != nil {
			v.Addf(domain.InvariantDependency, field, "malformed coordinate %q", decl.Coordinate)
			continue
		}
		if !IsWellFormedVersion(coord.Version) {
			v.Addf(domain.InvariantDependency, field, "dynamic or malformed version %q", coord.Version)
			continue
		}

		if prev, seen := versions[coord.Module()]; seen && prev != coord.Version {
			v.Addf(domain.InvariantDependency, field,
				"%s conflicts with %s:%s", coord, coord.Module(), prev)
			continue
		}
		versions[coord.Module()] = coord.Version

		if ok {
			cfg.Dependencies = append(cfg.Dependencies, domain.Dependency{Coordinate: coord, Scope: scope})
		}
	}
}
