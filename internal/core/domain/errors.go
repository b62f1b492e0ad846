package domain

import "go.trai.ch/zerr"

var (
	// ErrValidation is the sentinel every ValidationError unwraps to.
	ErrValidation = zerr.New("invalid build configuration")

	// ErrBuildTypeNotFound is returned when a plan is requested for an undeclared build type.
	ErrBuildTypeNotFound = zerr.New("build type not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file can be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigTrailingContent is returned when the config file holds more than one YAML document.
	ErrConfigTrailingContent = zerr.New("config file contains multiple documents or trailing content")

	// ErrUnsupportedConfigFormat is returned when the config file does not have a YAML extension.
	ErrUnsupportedConfigFormat = zerr.New("unsupported config format, only YAML is supported")

	// ErrUnsupportedOutputFormat is returned when a plan is rendered in an unknown format.
	ErrUnsupportedOutputFormat = zerr.New("unsupported output format, expected json, yaml or properties")

	// ErrPlanEncodeFailed is returned when a plan cannot be encoded.
	ErrPlanEncodeFailed = zerr.New("failed to encode build plan")

	// ErrStoreCreateFailed is returned when the plan store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create plan store directory")

	// ErrStoreReadFailed is returned when a stored plan cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read stored plan")

	// ErrStoreUnmarshalFailed is returned when a stored plan cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal stored plan")

	// ErrStoreWriteFailed is returned when a plan cannot be written to the store.
	ErrStoreWriteFailed = zerr.New("failed to write plan")

	// ErrRepositoryRequestFailed is returned when a Maven repository cannot be queried.
	ErrRepositoryRequestFailed = zerr.New("failed to query artifact repository")

	// ErrRepositoryParseFailed is returned when repository metadata cannot be parsed.
	ErrRepositoryParseFailed = zerr.New("failed to parse repository metadata")

	// ErrRepositoryUnavailable is returned when a repository circuit breaker is open.
	ErrRepositoryUnavailable = zerr.New("artifact repository unavailable")

	// ErrArtifactNotFound is returned when repository metadata does not exist for an artifact.
	ErrArtifactNotFound = zerr.New("artifact not found")

	// ErrUnresolvableDependency is returned when a declared version is unknown to every repository.
	ErrUnresolvableDependency = zerr.New("dependency version is not known to any repository")

	// ErrKeyReadFailed is returned when an OpenPGP key file cannot be read.
	ErrKeyReadFailed = zerr.New("failed to read OpenPGP key")

	// ErrNoSigningKey is returned when a keyring holds no usable private key.
	ErrNoSigningKey = zerr.New("no private signing key found")

	// ErrKeyDecryptFailed is returned when a private key cannot be unlocked.
	ErrKeyDecryptFailed = zerr.New("failed to decrypt private key")

	// ErrSignFailed is returned when the plan signature cannot be produced.
	ErrSignFailed = zerr.New("failed to sign build plan")

	// ErrSignatureInvalid is returned when a plan signature does not verify.
	ErrSignatureInvalid = zerr.New("plan signature verification failed")

	// ErrPlanNotFound is returned when an operation needs a stored plan and none was written.
	ErrPlanNotFound = zerr.New("no plan has been written, run resolve --write first")

	// ErrSignatureReadFailed is returned when a plan signature cannot be read or written.
	ErrSignatureReadFailed = zerr.New("failed to access plan signature")

	// ErrWatchFailed is returned when the config watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch configuration")
)
