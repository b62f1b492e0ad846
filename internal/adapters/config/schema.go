package config

// Configfile represents the structure of the droidcfg.yaml configuration file.
type Configfile struct {
	Plugins      []string        `yaml:"plugins"`
	Framework    FrameworkDTO    `yaml:"framework"`
	Android      AndroidDTO      `yaml:"android"`
	Repositories []string        `yaml:"repositories"`
	Dependencies []DependencyDTO `yaml:"dependencies"`
}

// FrameworkDTO declares the wrapping framework and the SDK levels it provides.
type FrameworkDTO struct {
	Name       string `yaml:"name"`
	Source     string `yaml:"source"`
	CompileSdk string `yaml:"compileSdk"`
	MinSdk     string `yaml:"minSdk"`
	TargetSdk  string `yaml:"targetSdk"`
}

// AndroidDTO mirrors the android block of a Gradle build script.
type AndroidDTO struct {
	Namespace      string                      `yaml:"namespace"`
	CompileSdk     string                      `yaml:"compileSdk"`
	NdkVersion     string                      `yaml:"ndkVersion"`
	CompileOptions CompileOptionsDTO           `yaml:"compileOptions"`
	KotlinOptions  KotlinOptionsDTO            `yaml:"kotlinOptions"`
	DefaultConfig  DefaultConfigDTO            `yaml:"defaultConfig"`
	SigningConfigs map[string]SigningConfigDTO `yaml:"signingConfigs"`
	BuildTypes     map[string]BuildTypeDTO     `yaml:"buildTypes"`
	Splits         SplitsDTO                   `yaml:"splits"`
}

// CompileOptionsDTO holds the Java compatibility levels.
type CompileOptionsDTO struct {
	SourceCompatibility string `yaml:"sourceCompatibility"`
	TargetCompatibility string `yaml:"targetCompatibility"`
}

// KotlinOptionsDTO holds the Kotlin bytecode target.
type KotlinOptionsDTO struct {
	JvmTarget string `yaml:"jvmTarget"`
}

// DefaultConfigDTO holds application identity and version metadata.
type DefaultConfigDTO struct {
	ApplicationID string `yaml:"applicationId"`
	MinSdk        string `yaml:"minSdk"`
	TargetSdk     string `yaml:"targetSdk"`
	VersionCode   *int   `yaml:"versionCode"`
	VersionName   string `yaml:"versionName"`
}

// SigningConfigDTO is a named signing profile.
type SigningConfigDTO struct {
	StoreFile string `yaml:"storeFile"`
	KeyAlias  string `yaml:"keyAlias"`
}

// BuildTypeDTO is a build type declaration.
type BuildTypeDTO struct {
	SigningConfig string `yaml:"signingConfig"`
	MinifyEnabled bool   `yaml:"minifyEnabled"`
	Debuggable    *bool  `yaml:"debuggable"`
}

// SplitsDTO holds the split packaging rules.
type SplitsDTO struct {
	ABI AbiSplitDTO `yaml:"abi"`
}

// AbiSplitDTO holds the ABI split rules.
type AbiSplitDTO struct {
	Enable       bool     `yaml:"enable"`
	Include      []string `yaml:"include"`
	UniversalApk bool     `yaml:"universalApk"`
}

// DependencyDTO is a library dependency declaration.
type DependencyDTO struct {
	Scope      string `yaml:"scope"`
	Coordinate string `yaml:"coordinate"`
}
