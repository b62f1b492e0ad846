package resolver_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/droidcfg/internal/engine/resolver"
)

func ptr[T any](v T) *T {
	return &v
}

func validDocument() *domain.Document {
	return &domain.Document{
		Plugins: []string{
			resolver.PluginAndroidApplication,
			resolver.PluginKotlinAndroid,
			resolver.PluginFlutter,
		},
		Framework: domain.FrameworkDecl{
			Name:       "flutter",
			Source:     "../..",
			CompileSdk: "35",
			MinSdk:     "21",
			TargetSdk:  "35",
		},
		Namespace:           "com.example.boxoffice",
		CompileSdk:          domain.SdkFramework,
		NdkVersion:          "27.0.12077973",
		SourceCompatibility: "VERSION_17",
		TargetCompatibility: "VERSION_17",
		JvmTarget:           "17",
		VersionCode:         ptr(1),
		VersionName:         "1.0",
		SigningConfigs: map[string]domain.SigningProfile{
			"upload": {StoreFile: "upload-keystore.jks", KeyAlias: "upload"},
		},
		BuildTypes: map[string]domain.BuildTypeDecl{
			domain.BuildTypeRelease: {SigningConfig: "upload", Minify: true},
		},
		Splits: domain.AbiSplitDecl{
			Enable:       true,
			Include:      []string{"armeabi-v7a", "arm64-v8a", "x86_64"},
			UniversalApk: true,
		},
		Dependencies: []domain.DependencyDecl{
			{Scope: "implementation", Coordinate: "com.google.android.material:material:1.11.0"},
			{Scope: "implementation", Coordinate: "androidx.appcompat:appcompat:1.6.1"},
		},
	}
}

func resolveErr(t *testing.T, doc *domain.Document, buildType string) *domain.ValidationError {
	t.Helper()

	cfg, err := resolver.New().Resolve(doc, buildType)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr
}

func TestResolve_ValidDocument(t *testing.T) {
	cfg, err := resolver.New().Resolve(validDocument(), "")
	require.NoError(t, err)

	assert.Equal(t, "com.example.boxoffice", cfg.Namespace)
	assert.Equal(t, 35, cfg.CompileSdk)
	assert.Equal(t, 21, cfg.MinSdk)
	assert.Equal(t, 35, cfg.TargetSdk)
	assert.Equal(t, domain.BuildTypeRelease, cfg.BuildType)
	assert.Equal(t, "upload", cfg.SigningConfigRef)
	assert.Equal(t, []domain.ABI{domain.ABIArmeabiV7a, domain.ABIArm64V8a, domain.ABIX8664}, cfg.AbiList)
	assert.True(t, cfg.SplitsEnabled)
	assert.True(t, cfg.UniversalApkEnabled)
	assert.Equal(t, domain.Framework{Name: "flutter", Source: "../.."}, cfg.Framework)
	assert.Len(t, cfg.Dependencies, 2)
	assert.Equal(t, domain.ScopeImplementation, cfg.Dependencies[0].Scope)
	assert.True(t, cfg.BuildTypes[domain.BuildTypeRelease].Minify)
}

func TestResolve_VersionPassesThroughUnchanged(t *testing.T) {
	cfg, err := resolver.New().Resolve(validDocument(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.VersionCode)
	assert.Equal(t, "1.0", cfg.VersionName)
}

func TestResolve_Defaults(t *testing.T) {
	doc := validDocument()
	doc.ApplicationID = ""
	doc.VersionCode = nil
	doc.VersionName = ""
	doc.SigningConfigs = nil
	doc.BuildTypes = nil
	doc.Repositories = nil
	doc.MinSdk = ""

	cfg, err := resolver.New().Resolve(doc, "")
	require.NoError(t, err)

	assert.Equal(t, doc.Namespace, cfg.ApplicationID)
	assert.Equal(t, 1, cfg.VersionCode)
	assert.Equal(t, "1.0", cfg.VersionName)
	assert.Equal(t, 21, cfg.MinSdk)
	assert.Equal(t, resolver.DefaultRepositories(), cfg.Repositories)
	assert.Equal(t, domain.DefaultDebugSigningProfile(), cfg.SigningProfiles[domain.SigningProfileDebug])
	assert.Empty(t, cfg.SigningConfigRef, "release is unsigned unless declared")

	debug := cfg.BuildTypes[domain.BuildTypeDebug]
	assert.Equal(t, domain.SigningProfileDebug, debug.SigningConfigRef)
	assert.True(t, debug.Debuggable)
}

func TestResolve_DebugBuildType(t *testing.T) {
	cfg, err := resolver.New().Resolve(validDocument(), domain.BuildTypeDebug)
	require.NoError(t, err)

	assert.Equal(t, domain.BuildTypeDebug, cfg.BuildType)
	assert.Equal(t, domain.SigningProfileDebug, cfg.SigningConfigRef)
}

func TestResolve_DebugProfileOverride(t *testing.T) {
	doc := validDocument()
	doc.SigningConfigs[domain.SigningProfileDebug] = domain.SigningProfile{StoreFile: "ci.keystore", KeyAlias: "ci"}

	cfg, err := resolver.New().Resolve(doc, domain.BuildTypeDebug)
	require.NoError(t, err)
	assert.Equal(t, "ci.keystore", cfg.SigningProfiles[domain.SigningProfileDebug].StoreFile)
}

func TestResolve_SdkCodenames(t *testing.T) {
	doc := validDocument()
	doc.MinSdk = "L"
	doc.TargetSdk = "V"
	doc.CompileSdk = "35"

	cfg, err := resolver.New().Resolve(doc, "")
	require.NoError(t, err)
	assert.Equal(t, 21, cfg.MinSdk)
	assert.Equal(t, 35, cfg.TargetSdk)
}

func TestResolve_SdkOrdering(t *testing.T) {
	t.Run("min exceeds target", func(t *testing.T) {
		doc := validDocument()
		doc.MinSdk = "34"
		doc.TargetSdk = "33"

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantSdkOrdering))
		assert.ErrorContains(t, vErr, "minSdk exceeds targetSdk")
	})

	t.Run("target exceeds compile", func(t *testing.T) {
		doc := validDocument()
		doc.CompileSdk = "33"
		doc.TargetSdk = "34"

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantSdkOrdering))
		assert.ErrorContains(t, vErr, "targetSdk exceeds compileSdk")
	})

	t.Run("ordering holds for every accepted config", func(t *testing.T) {
		r := resolver.New()
		for minSdk := 19; minSdk <= 23; minSdk++ {
			for target := 19; target <= 23; target++ {
				doc := validDocument()
				doc.MinSdk = strconv.Itoa(minSdk)
				doc.TargetSdk = strconv.Itoa(target)
				doc.CompileSdk = "22"

				cfg, err := r.Resolve(doc, "")
				if err != nil {
					var vErr *domain.ValidationError
					require.ErrorAs(t, err, &vErr)
					assert.True(t, vErr.Has(domain.InvariantSdkOrdering))
					continue
				}
				assert.LessOrEqual(t, cfg.MinSdk, cfg.TargetSdk)
				assert.LessOrEqual(t, cfg.TargetSdk, cfg.CompileSdk)
			}
		}
	})
}

func TestResolve_SdkLevel(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.Document)
		want   string
	}{
		{
			name:   "unknown codename",
			modify: func(d *domain.Document) { d.MinSdk = "Z" },
			want:   `unknown SDK level "Z"`,
		},
		{
			name:   "zero",
			modify: func(d *domain.Document) { d.MinSdk = "0" },
			want:   "SDK level must be positive",
		},
		{
			name: "framework without default",
			modify: func(d *domain.Document) {
				d.CompileSdk = domain.SdkFramework
				d.Framework.CompileSdk = ""
			},
			want: "compileSdk is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.modify(doc)

			vErr := resolveErr(t, doc, "")
			assert.True(t, vErr.Has(domain.InvariantSdkLevel))
			assert.ErrorContains(t, vErr, tt.want)
		})
	}
}

func TestResolve_SigningProfile(t *testing.T) {
	t.Run("unknown reference", func(t *testing.T) {
		doc := validDocument()
		doc.BuildTypes[domain.BuildTypeRelease] = domain.BuildTypeDecl{SigningConfig: "missing"}

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantSigningProfile))
		assert.ErrorContains(t, vErr, `unknown signing profile "missing"`)
	})

	t.Run("unknown reference on unselected build type", func(t *testing.T) {
		doc := validDocument()
		doc.BuildTypes["staging"] = domain.BuildTypeDecl{SigningConfig: "missing"}

		vErr := resolveErr(t, doc, domain.BuildTypeDebug)
		assert.True(t, vErr.Has(domain.InvariantSigningProfile))
	})

	t.Run("unknown build type", func(t *testing.T) {
		vErr := resolveErr(t, validDocument(), "profile")
		assert.True(t, vErr.Has(domain.InvariantSigningProfile))
		assert.ErrorContains(t, vErr, `unknown build type "profile"`)
	})

	t.Run("incomplete profile", func(t *testing.T) {
		doc := validDocument()
		doc.SigningConfigs["upload"] = domain.SigningProfile{}

		vErr := resolveErr(t, doc, "")
		assert.Len(t, vErr.Violations, 2)
		assert.True(t, vErr.Has(domain.InvariantSigningProfile))
	})
}

func TestResolve_Identity(t *testing.T) {
	t.Run("missing namespace", func(t *testing.T) {
		doc := validDocument()
		doc.Namespace = ""

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantNamespace))
		assert.False(t, vErr.Has(domain.InvariantApplicationID))
	})

	t.Run("single segment namespace", func(t *testing.T) {
		doc := validDocument()
		doc.Namespace = "boxoffice"

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantNamespace))
	})

	t.Run("invalid application id", func(t *testing.T) {
		doc := validDocument()
		doc.ApplicationID = "com.example.1app"

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantApplicationID))
	})
}

func TestResolve_Version(t *testing.T) {
	t.Run("version code out of range", func(t *testing.T) {
		for _, code := range []int{0, -1, 2100000001} {
			doc := validDocument()
			doc.VersionCode = ptr(code)

			vErr := resolveErr(t, doc, "")
			assert.True(t, vErr.Has(domain.InvariantVersionCode))
		}
	})

	t.Run("version code upper bound", func(t *testing.T) {
		doc := validDocument()
		doc.VersionCode = ptr(2100000000)

		cfg, err := resolver.New().Resolve(doc, "")
		require.NoError(t, err)
		assert.Equal(t, 2100000000, cfg.VersionCode)
	})

	t.Run("malformed version name", func(t *testing.T) {
		doc := validDocument()
		doc.VersionName = "one"

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantVersionName))
	})
}

func TestResolve_Abi(t *testing.T) {
	t.Run("unsupported abi", func(t *testing.T) {
		doc := validDocument()
		doc.Splits.Include = append(doc.Splits.Include, "mips")

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantABI))
		assert.ErrorContains(t, vErr, `unsupported ABI "mips"`)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		doc := validDocument()
		doc.Splits.Include = []string{"x86_64", "arm64-v8a", "x86_64"}

		cfg, err := resolver.New().Resolve(doc, "")
		require.NoError(t, err)
		assert.Equal(t, []domain.ABI{domain.ABIArm64V8a, domain.ABIX8664}, cfg.AbiList)
	})

	t.Run("enabled split without abis", func(t *testing.T) {
		doc := validDocument()
		doc.Splits.Include = nil

		vErr := resolveErr(t, doc, "")
		assert.True(t, vErr.Has(domain.InvariantABI))
	})

	t.Run("disabled split without abis", func(t *testing.T) {
		doc := validDocument()
		doc.Splits = domain.AbiSplitDecl{}

		cfg, err := resolver.New().Resolve(doc, "")
		require.NoError(t, err)
		assert.False(t, cfg.SplitsEnabled)
		assert.Empty(t, cfg.AbiList)
	})
}

func TestResolve_PluginOrder(t *testing.T) {
	tests := []struct {
		name    string
		plugins []string
		valid   bool
	}{
		{
			name:    "declared order",
			plugins: []string{resolver.PluginAndroidApplication, resolver.PluginKotlinAndroid, resolver.PluginFlutter},
			valid:   true,
		},
		{
			name:    "without framework plugin",
			plugins: []string{resolver.PluginAndroidApplication, resolver.PluginKotlinAndroidID},
			valid:   true,
		},
		{
			name:    "framework before android",
			plugins: []string{resolver.PluginFlutter, resolver.PluginAndroidApplication},
		},
		{
			name:    "framework before kotlin",
			plugins: []string{resolver.PluginAndroidApplication, resolver.PluginFlutter, resolver.PluginKotlinAndroid},
		},
		{
			name:    "missing android",
			plugins: []string{resolver.PluginKotlinAndroid},
		},
		{
			name:    "android twice",
			plugins: []string{resolver.PluginAndroidApplication, resolver.PluginAndroidApplication},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			doc.Plugins = tt.plugins

			if tt.valid {
				_, err := resolver.New().Resolve(doc, "")
				require.NoError(t, err)
				return
			}
			vErr := resolveErr(t, doc, "")
			assert.True(t, vErr.Has(domain.InvariantPluginOrder))
		})
	}
}

func TestResolve_JavaCompatibility(t *testing.T) {
	doc := validDocument()
	doc.TargetCompatibility = "VERSION_1_8"
	doc.JvmTarget = "1.8"

	_, err := resolver.New().Resolve(doc, "")
	require.NoError(t, err)

	doc.JvmTarget = "11"
	vErr := resolveErr(t, doc, "")
	assert.True(t, vErr.Has(domain.InvariantJavaCompatibility))
}

func TestResolve_NdkVersion(t *testing.T) {
	doc := validDocument()
	doc.NdkVersion = "r27"

	vErr := resolveErr(t, doc, "")
	assert.True(t, vErr.Has(domain.InvariantNdkVersion))
}

func TestResolve_Repositories(t *testing.T) {
	doc := validDocument()
	doc.Repositories = []string{"https://maven.example.com/releases/", "ftp://mirror", "relative/path"}

	vErr := resolveErr(t, doc, "")
	require.Len(t, vErr.Violations, 2)
	assert.Equal(t, "repositories[1]", vErr.Violations[0].Field)
	assert.Equal(t, "repositories[2]", vErr.Violations[1].Field)

	doc.Repositories = doc.Repositories[:1]
	cfg, err := resolver.New().Resolve(doc, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://maven.example.com/releases"}, cfg.Repositories)
}

func TestResolve_Dependencies(t *testing.T) {
	tests := []struct {
		name string
		decl domain.DependencyDecl
		want string
	}{
		{
			name: "dynamic version",
			decl: domain.DependencyDecl{Scope: "implementation", Coordinate: "androidx.core:core-ktx:1.+"},
			want: `dynamic or malformed version "1.+"`,
		},
		{
			name: "latest selector",
			decl: domain.DependencyDecl{Scope: "implementation", Coordinate: "androidx.core:core-ktx:latest.release"},
			want: "dynamic or malformed version",
		},
		{
			name: "malformed coordinate",
			decl: domain.DependencyDecl{Scope: "implementation", Coordinate: "androidx.core"},
			want: `malformed coordinate "androidx.core"`,
		},
		{
			name: "unsupported scope",
			decl: domain.DependencyDecl{Scope: "compile", Coordinate: "androidx.core:core-ktx:1.12.0"},
			want: `unsupported scope "compile"`,
		},
		{
			name: "conflicting version",
			decl: domain.DependencyDecl{Scope: "api", Coordinate: "androidx.appcompat:appcompat:1.7.0"},
			want: "conflicts with androidx.appcompat:appcompat:1.6.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			doc.Dependencies = append(doc.Dependencies, tt.decl)

			vErr := resolveErr(t, doc, "")
			assert.True(t, vErr.Has(domain.InvariantDependency))
			assert.ErrorContains(t, vErr, tt.want)
		})
	}

	t.Run("same version in another scope", func(t *testing.T) {
		doc := validDocument()
		doc.Dependencies = append(doc.Dependencies,
			domain.DependencyDecl{Scope: "testImplementation", Coordinate: "androidx.appcompat:appcompat:1.6.1"})

		cfg, err := resolver.New().Resolve(doc, "")
		require.NoError(t, err)
		assert.Len(t, cfg.Dependencies, 3)
	})

	t.Run("qualified version", func(t *testing.T) {
		doc := validDocument()
		doc.Dependencies = []domain.DependencyDecl{
			{Scope: "implementation", Coordinate: "com.google.guava:guava:32.1.0-jre"},
		}

		_, err := resolver.New().Resolve(doc, "")
		require.NoError(t, err)
	})

	t.Run("qualified two part version", func(t *testing.T) {
		doc := validDocument()
		doc.VersionName = "1.0-beta"
		doc.Dependencies = []domain.DependencyDecl{
			{Scope: "implementation", Coordinate: "com.google.guava:guava:31.1-jre"},
			{Scope: "testImplementation", Coordinate: "com.example:fixtures:1.0-SNAPSHOT"},
		}

		cfg, err := resolver.New().Resolve(doc, "")
		require.NoError(t, err)
		assert.Equal(t, "1.0-beta", cfg.VersionName)
		assert.Len(t, cfg.Dependencies, 2)
	})
}

func TestResolve_AccumulatesViolations(t *testing.T) {
	doc := validDocument()
	doc.MinSdk = "34"
	doc.TargetSdk = "33"
	doc.BuildTypes[domain.BuildTypeRelease] = domain.BuildTypeDecl{SigningConfig: "missing"}
	doc.Splits.Include = []string{"mips"}

	vErr := resolveErr(t, doc, "")
	assert.True(t, vErr.Has(domain.InvariantSdkOrdering))
	assert.True(t, vErr.Has(domain.InvariantSigningProfile))
	assert.True(t, vErr.Has(domain.InvariantABI))
}

func TestResolve_DoesNotMutateDocument(t *testing.T) {
	doc := validDocument()
	want := validDocument()

	_, err := resolver.New().Resolve(doc, "")
	require.NoError(t, err)
	assert.Equal(t, want, doc)
}

func TestIsWellFormedVersion(t *testing.T) {
	for _, v := range []string{"1.0", "1.6.1", "32.1.0-jre", "2.0.0+42", "31.1-jre", "1.0-SNAPSHOT", "1.0-beta", "3"} {
		assert.True(t, resolver.IsWellFormedVersion(v), v)
	}
	for _, v := range []string{"", "1.+", "latest.release", "v1.0.0", "[1.0,2.0)", "1.0.0.0", "1.-jre", "+", "1.x-jre"} {
		assert.False(t, resolver.IsWellFormedVersion(v), v)
	}
}
