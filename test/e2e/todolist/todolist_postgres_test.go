package todolist_test

import (
	"testing"

	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

// TestPostgresBackend runs the shared board workflow against postgres.
func TestPostgresBackend(t *testing.T) {
	baseURL, cleanup := setupPostgresBackedContainer(t)
	defer cleanup()

	health, err := todosdk.NewClient(baseURL).Readyz(t.Context())
	assertHealthy(t, health, err)

	runSharedBoardWorkflow(t, baseURL)
}
