package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Scope is the configuration a dependency is declared in.
type Scope string

// Supported dependency scopes.
const (
	ScopeImplementation            Scope = "implementation"
	ScopeAPI                       Scope = "api"
	ScopeCompileOnly               Scope = "compileOnly"
	ScopeRuntimeOnly               Scope = "runtimeOnly"
	ScopeTestImplementation        Scope = "testImplementation"
	ScopeAndroidTestImplementation Scope = "androidTestImplementation"
	ScopeDebugImplementation       Scope = "debugImplementation"
	ScopeReleaseImplementation     Scope = "releaseImplementation"
)

var knownScopes = []Scope{
	ScopeImplementation,
	ScopeAPI,
	ScopeCompileOnly,
	ScopeRuntimeOnly,
	ScopeTestImplementation,
	ScopeAndroidTestImplementation,
	ScopeDebugImplementation,
	ScopeReleaseImplementation,
}

// ParseScope reports whether s names a supported scope.
func ParseScope(s string) (Scope, bool) {
	scope := Scope(s)
	if slices.Contains(knownScopes, scope) {
		return scope, true
	}
	return "", false
}

// ErrMalformedCoordinate is returned by ParseCoordinate for anything but group:artifact:version.
var ErrMalformedCoordinate = zerr.New("coordinate must have the form group:artifact:version")

// Coordinate identifies a Maven artifact version.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// ParseCoordinate parses a group:artifact:version triple.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, zerr.With(ErrMalformedCoordinate, "coordinate", s)
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t/\\") {
			return Coordinate{}, zerr.With(ErrMalformedCoordinate, "coordinate", s)
		}
	}
	return Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}, nil
}

// Module returns the group:artifact pair.
func (c Coordinate) Module() string {
	return c.Group + ":" + c.Artifact
}

// String returns the group:artifact:version triple.
func (c Coordinate) String() string {
	return c.Module() + ":" + c.Version
}

// Dependency is a resolved library dependency.
type Dependency struct {
	Coordinate Coordinate
	Scope      Scope
}

// DependencyReport is the outcome of checking one dependency against the artifact repositories.
type DependencyReport struct {
	Coordinate Coordinate
	Found      bool
	// Repository is the base URL of the first repository listing the version.
	Repository string
	// Latest is the newest version the first repository holding the artifact advertises.
	Latest string
	// Err is set when the repositories could not be queried for this dependency.
	Err error
}
