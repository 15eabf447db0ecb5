package ports

import (
	"context"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// RemoteStore defines the outbound integration with the remote cart document.
// The document is a single fixed resource replaced wholesale on every push;
// the store keeps no versioning, so the last writer wins.
type RemoteStore interface {
	// Fetch reads the remote document. An empty document (the store answers
	// with a JSON null body) yields an empty snapshot; any other failure is
	// an error.
	Fetch(ctx context.Context) (domain.Snapshot, error)
	// Push replaces the remote document with the snapshot.
	Push(ctx context.Context, snapshot domain.Snapshot) error
}
