package domain

// BuildPlan is the flat, normalized result handed to the external packager.
type BuildPlan struct {
	BuildType    string              `json:"buildType" yaml:"buildType"`
	Settings     map[string]string   `json:"settings" yaml:"settings"`
	Packaging    []PackagingUnit     `json:"packaging" yaml:"packaging"`
	Dependencies []PlannedDependency `json:"dependencies" yaml:"dependencies"`
	Fingerprint  string              `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// PackagingUnit is one package the external packager will emit.
type PackagingUnit struct {
	Name      string `json:"name" yaml:"name"`
	ABI       string `json:"abi,omitempty" yaml:"abi,omitempty"`
	Universal bool   `json:"universal" yaml:"universal"`
	Output    string `json:"output" yaml:"output"`
}

// PlannedDependency is a dependency as it appears in the plan.
type PlannedDependency struct {
	Scope    string `json:"scope" yaml:"scope"`
	Group    string `json:"group" yaml:"group"`
	Artifact string `json:"artifact" yaml:"artifact"`
	Version  string `json:"version" yaml:"version"`
	PURL     string `json:"purl" yaml:"purl"`
}
