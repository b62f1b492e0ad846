package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
)

// TestGraftDependencies checks that every node declaring a dependency uses it
// and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// AssertDepsValid infers a dependency ID from the package of the type passed
	// to Dep[T]. Every adapter here is looked up through a ports interface, so
	// all of them would be expected under a single "ports" ID.
	t.Skip("graft static analysis cannot tell apart nodes sharing the ports package")
	graft.AssertDepsValid(t, "../../internal")
}
