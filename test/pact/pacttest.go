//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// APIProviderName identifies the cart API when it is verified as a provider.
	APIProviderName = "cart-api"
	// UIConsumerName identifies the shopping UI consuming the cart API.
	UIConsumerName = "cart-ui"
	// RemoteProviderName identifies the remote document store the API syncs with.
	RemoteProviderName = "remote-cart-store"

	StateCartsBaseline = "carts baseline"
	StateCartSeeded    = "cart default holds one line of p1"
	StateCartMissing   = "no cart named ghost"

	StateRemoteSeeded     = "remote store holds a cart document"
	StateRemoteEmpty      = "remote store is empty"
	StateRemoteAcceptsPut = "remote store accepts replacements"
)

const (
	SeededCartID  = "default"
	MissingCartID = "ghost"

	SeededItemID    = "p1"
	SeededItemName  = "Product 1"
	SeededItemPrice = 6.0
)

// ExampleCartDocument provides stable remote document test data.
func ExampleCartDocument() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{
				"id":         SeededItemID,
				"name":       SeededItemName,
				"price":      SeededItemPrice,
				"quantity":   2,
				"totalPrice": 12.0,
			},
		},
		"totalQuantity": 2,
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// UIPactFile returns the pact file path for the cart UI consumer contract.
func UIPactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), UIConsumerName+"-"+APIProviderName+".json")
}

// RemotePactFile returns the pact file path for the remote store contract.
func RemotePactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), APIProviderName+"-"+RemoteProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
