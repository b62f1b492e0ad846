package ports

import "go.trai.ch/droidcfg/internal/core/domain"

// PlanStore defines the interface for persisting resolved build plans.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type PlanStore interface {
	// Get retrieves the archived plan with the given fingerprint.
	// Returns nil, nil if not found.
	Get(root, fingerprint string) (*domain.BuildPlan, error)

	// Current retrieves the most recently written plan.
	// Returns nil, nil if no plan has been written.
	Current(root string) (*domain.BuildPlan, error)

	// Put writes the plan as the current plan and archives it under its fingerprint.
	// It reports whether a plan with the same fingerprint was already archived.
	Put(root string, plan *domain.BuildPlan) (bool, error)
}
