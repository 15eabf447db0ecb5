//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/go-gin-cart-server/test/pact"

	cartserver "github.com/Apurer/go-gin-cart-server/go"
	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	notifmemory "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/adapters/memory"
	notifapp "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestCartAPIProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.UIPactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCartsBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateCartSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedCart(t)
			}
			return nil, nil
		},
		pacttest.StateCartMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.APIProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the full application on reset so every
// verification starts from an empty repository.
type contractProviderApp struct {
	mu      sync.Mutex
	router  http.Handler
	service cartports.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(app)
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	router := a.router
	a.mu.Unlock()
	router.ServeHTTP(w, r)
}

func (a *contractProviderApp) reset() {
	cartService := cartobs.New(cartapp.NewService(cartmemory.NewRepository()))
	notifService := notifapp.NewService(notifmemory.NewStore())

	handlers := cartserver.ApiHandleFunctions{
		CartAPI:         cartserver.NewCartAPI(cartService),
		NotificationAPI: cartserver.NewNotificationAPI(notifService, nil),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = cartserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	a.router = router
	a.service = cartService
	a.mu.Unlock()
}

func (a *contractProviderApp) seedCart(t testing.TB) {
	t.Helper()
	a.mu.Lock()
	service := a.service
	a.mu.Unlock()
	_, err := service.AddItem(context.Background(), carttypes.AddItemInput{
		CartID:    pacttest.SeededCartID,
		ItemID:    pacttest.SeededItemID,
		Title:     pacttest.SeededItemName,
		UnitPrice: pacttest.SeededItemPrice,
	})
	require.NoError(t, err)
}
