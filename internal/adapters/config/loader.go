// Package config provides the configuration loader for droidcfg.
package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/droidcfg/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Discover walks up from cwd and returns the path of the nearest droidcfg.yaml.
func (l *Loader) Discover(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// Load reads and strictly decodes the document at path.
func (l *Loader) Load(path string) (*domain.Document, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, zerr.With(domain.ErrUnsupportedConfigFormat, "path", path)
	}

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	file, err := decodeStrict(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.warnIneffective(file)

	doc := toDocument(file)
	doc.Path = path
	return doc, nil
}

// decodeStrict rejects unknown fields, multiple documents and trailing content.
func decodeStrict(data []byte) (*Configfile, error) {
	var file Configfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, domain.ErrConfigTrailingContent
	}

	return &file, nil
}

func (l *Loader) warnIneffective(file *Configfile) {
	abi := file.Android.Splits.ABI
	if !abi.Enable && abi.UniversalApk {
		l.Logger.Warn("'splits.abi.universalApk' has no effect while ABI splits are disabled")
	}
	if !abi.Enable && len(abi.Include) > 0 {
		l.Logger.Warn("'splits.abi.include' has no effect while ABI splits are disabled")
	}
}

func toDocument(file *Configfile) *domain.Document {
	android := file.Android

	doc := &domain.Document{
		Plugins: file.Plugins,
		Framework: domain.FrameworkDecl{
			Name:       file.Framework.Name,
			Source:     file.Framework.Source,
			CompileSdk: file.Framework.CompileSdk,
			MinSdk:     file.Framework.MinSdk,
			TargetSdk:  file.Framework.TargetSdk,
		},
		Namespace:           android.Namespace,
		CompileSdk:          android.CompileSdk,
		MinSdk:              android.DefaultConfig.MinSdk,
		TargetSdk:           android.DefaultConfig.TargetSdk,
		NdkVersion:          android.NdkVersion,
		SourceCompatibility: android.CompileOptions.SourceCompatibility,
		TargetCompatibility: android.CompileOptions.TargetCompatibility,
		JvmTarget:           android.KotlinOptions.JvmTarget,
		ApplicationID:       android.DefaultConfig.ApplicationID,
		VersionCode:         android.DefaultConfig.VersionCode,
		VersionName:         android.DefaultConfig.VersionName,
		Splits: domain.AbiSplitDecl{
			Enable:       android.Splits.ABI.Enable,
			Include:      android.Splits.ABI.Include,
			UniversalApk: android.Splits.ABI.UniversalApk,
		},
		Repositories: file.Repositories,
	}

	if len(android.SigningConfigs) > 0 {
		doc.SigningConfigs = make(map[string]domain.SigningProfile, len(android.SigningConfigs))
		for name, dto := range android.SigningConfigs {
			doc.SigningConfigs[name] = domain.SigningProfile{StoreFile: dto.StoreFile, KeyAlias: dto.KeyAlias}
		}
	}

	if len(android.BuildTypes) > 0 {
		doc.BuildTypes = make(map[string]domain.BuildTypeDecl, len(android.BuildTypes))
		for name, dto := range android.BuildTypes {
			doc.BuildTypes[name] = domain.BuildTypeDecl{
				SigningConfig: dto.SigningConfig,
				Minify:        dto.MinifyEnabled,
				Debuggable:    dto.Debuggable,
			}
		}
	}

	for _, dto := range file.Dependencies {
		doc.Dependencies = append(doc.Dependencies, domain.DependencyDecl{
			Scope:      dto.Scope,
			Coordinate: dto.Coordinate,
		})
	}

	return doc
}
