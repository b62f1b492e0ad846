// Package domain contains the core domain model of the build configuration resolver.
package domain

// SdkFramework is the SDK level placeholder that selects the framework-provided default.
const SdkFramework = "framework"

// Well-known build type and signing profile names.
const (
	BuildTypeDebug   = "debug"
	BuildTypeRelease = "release"

	SigningProfileDebug = "debug"
)

// Document is the declarative build configuration as written by the user.
// Values are unresolved: SDK levels may be integers, codenames or the framework
// placeholder, and optional fields may be empty.
type Document struct {
	// Path is the location the document was read from. Empty for in-memory documents.
	Path string

	Plugins   []string
	Framework FrameworkDecl

	Namespace  string
	CompileSdk string
	MinSdk     string
	TargetSdk  string
	NdkVersion string

	SourceCompatibility string
	TargetCompatibility string
	JvmTarget           string

	ApplicationID string
	VersionCode   *int
	VersionName   string

	SigningConfigs map[string]SigningProfile
	BuildTypes     map[string]BuildTypeDecl
	Splits         AbiSplitDecl

	Repositories []string
	Dependencies []DependencyDecl
}

// FrameworkDecl declares the cross-platform framework wrapping the Android app
// and the SDK defaults it provides.
type FrameworkDecl struct {
	Name       string
	Source     string
	CompileSdk string
	MinSdk     string
	TargetSdk  string
}

// BuildTypeDecl is a build type as declared in the document.
type BuildTypeDecl struct {
	SigningConfig string
	Minify        bool
	Debuggable    *bool
}

// AbiSplitDecl declares ABI split packaging.
type AbiSplitDecl struct {
	Enable       bool
	Include      []string
	UniversalApk bool
}

// DependencyDecl is a dependency as declared in the document.
type DependencyDecl struct {
	Scope      string
	Coordinate string
}

// BuildConfig is the validated, default-substituted build configuration.
// It is constructed once per resolution and must not be mutated afterwards.
type BuildConfig struct {
	Namespace  string
	CompileSdk int
	MinSdk     int
	TargetSdk  int
	NdkVersion string

	ApplicationID string
	VersionCode   int
	VersionName   string

	// BuildType is the build type the config was resolved for.
	BuildType string
	// SigningConfigRef names the signing profile of BuildType. Empty when unsigned.
	SigningConfigRef string

	// AbiList holds the split ABIs in canonical order without duplicates.
	AbiList             []ABI
	SplitsEnabled       bool
	UniversalApkEnabled bool

	Plugins         []string
	Java            JavaCompatibility
	Framework       Framework
	SigningProfiles map[string]SigningProfile
	BuildTypes      map[string]BuildType

	Repositories []string
	Dependencies []Dependency
}

// Framework is the resolved cross-platform framework block.
type Framework struct {
	Name   string
	Source string
}

// JavaCompatibility holds the Java and Kotlin bytecode targets.
type JavaCompatibility struct {
	SourceCompatibility string
	TargetCompatibility string
	JvmTarget           string
}

// SigningProfile is a named credential profile used by the external packager.
type SigningProfile struct {
	StoreFile string
	KeyAlias  string
}

// BuildType is a resolved build type.
type BuildType struct {
	Name             string
	SigningConfigRef string
	Minify           bool
	Debuggable       bool
}

// DefaultDebugSigningProfile returns the implicit debug signing profile.
func DefaultDebugSigningProfile() SigningProfile {
	return SigningProfile{
		StoreFile: "~/.android/debug.keystore",
		KeyAlias:  "androiddebugkey",
	}
}
