package repository

import (
	"io"
	"log/slog"
	"testing"

	"github.com/hackfolio/catalog-backend/catalog"
	"github.com/hackfolio/catalog-backend/interfaces"
	"github.com/hackfolio/catalog-backend/naming"
	"github.com/hackfolio/catalog-backend/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCatalog builds a catalog manager over the in-process substrate.
func newTestCatalog(t *testing.T, collection string) interfaces.CatalogManager {
	t.Helper()
	log := testLogger()
	return catalog.NewManager(storage.NewMemoryStore(log), naming.NewMemoryResolver(log), collection, log)
}
