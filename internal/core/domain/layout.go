package domain

import "path/filepath"

const (
	// StateDirName is the name of the tool state directory kept next to the config file.
	StateDirName = ".droidcfg"

	// PlansDirName is the name of the directory holding archived plans.
	PlansDirName = "plans"

	// CurrentPlanFileName is the name of the most recently written plan.
	CurrentPlanFileName = "plan.json"

	// SignatureExt is appended to a plan path to name its detached signature.
	SignatureExt = ".asc"

	// ConfigFileName is the name of the build configuration document.
	ConfigFileName = "droidcfg.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStatePath returns the state directory for a project rooted at root.
func DefaultStatePath(root string) string {
	return filepath.Join(root, StateDirName)
}

// DefaultPlansPath returns the archive directory for a project rooted at root.
// It joins .droidcfg and plans.
func DefaultPlansPath(root string) string {
	return filepath.Join(root, StateDirName, PlansDirName)
}

// DefaultCurrentPlanPath returns the path of the current plan for a project rooted at root.
func DefaultCurrentPlanPath(root string) string {
	return filepath.Join(root, StateDirName, CurrentPlanFileName)
}
