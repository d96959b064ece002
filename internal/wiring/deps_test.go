package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
)

// TestGraftDependencies would statically validate the dependency injection
// graph: every node declaring a dependency uses it, and every used
// dependency is declared. graft.AssertDepsValid infers the dependency ID
// from the package name of the interface used in Dep[T]; every node here
// resolves its interfaces from the shared ports package, so the inference
// cannot match the node IDs and the check is skipped. The graph is still
// exercised at startup through graft.ExecuteFor in cmd/metro.
func TestGraftDependencies(t *testing.T) {
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}
