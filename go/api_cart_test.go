package cartserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	carthttpmapper "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/http/mapper"
	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	notifmemory "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/adapters/memory"
	notifapp "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/application"
	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *notifapp.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cartService := cartapp.NewService(cartmemory.NewRepository())
	notifService := notifapp.NewService(notifmemory.NewStore())
	handlers := ApiHandleFunctions{
		CartAPI:         NewCartAPI(cartService),
		NotificationAPI: NewNotificationAPI(notifService, nil),
	}
	return NewRouterWithGinEngine(gin.New(), handlers), notifService
}

func performJSON(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAddCartItemAccumulatesQuantity(t *testing.T) {
	router, _ := newTestRouter(t)
	payload := carthttpmapper.AddItemPayload{ID: "p1", Title: "Product 1", Price: 6}

	recorder := performJSON(t, router, http.MethodPost, "/v1/carts/default/items", payload)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performJSON(t, router, http.MethodPost, "/v1/carts/default/items", payload)
	require.Equal(t, http.StatusOK, recorder.Code)

	var cart carthttpmapper.Cart
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &cart))
	require.Equal(t, "default", cart.CartID)
	require.Equal(t, 2, cart.TotalQuantity)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 12.0, cart.Items[0].TotalPrice)
	require.True(t, cart.Changed)
}

func TestAddCartItemRejectsMissingID(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := performJSON(t, router, http.MethodPost, "/v1/carts/default/items", gin.H{"title": "nameless"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Contains(t, recorder.Header().Get("Content-Type"), "application/problem+json")
}

func TestGetCartMissingReturnsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := performJSON(t, router, http.MethodGet, "/v1/carts/absent", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Contains(t, recorder.Header().Get("Content-Type"), "application/problem+json")
}

func TestRemoveCartItemDropsLineAtQuantityOne(t *testing.T) {
	router, _ := newTestRouter(t)
	payload := carthttpmapper.AddItemPayload{ID: "p1", Title: "Product 1", Price: 6}
	performJSON(t, router, http.MethodPost, "/v1/carts/default/items", payload)

	recorder := performJSON(t, router, http.MethodDelete, "/v1/carts/default/items/p1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var cart carthttpmapper.Cart
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &cart))
	require.Empty(t, cart.Items)
	require.Equal(t, 0, cart.TotalQuantity)
}

func TestReplaceCartOverwritesContents(t *testing.T) {
	router, _ := newTestRouter(t)
	performJSON(t, router, http.MethodPost, "/v1/carts/default/items", carthttpmapper.AddItemPayload{ID: "p1", Title: "Product 1", Price: 6})

	replacement := carthttpmapper.ReplaceCartPayload{
		Items: []carthttpmapper.CartLine{
			{ID: "p9", Name: "Product 9", Price: 3, Quantity: 2, TotalPrice: 6},
		},
		TotalQuantity: 2,
	}
	recorder := performJSON(t, router, http.MethodPut, "/v1/carts/default", replacement)
	require.Equal(t, http.StatusOK, recorder.Code)

	var cart carthttpmapper.Cart
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.Equal(t, "p9", cart.Items[0].ID)
	require.Equal(t, 2, cart.TotalQuantity)
}

func TestListCartsReturnsAllCarts(t *testing.T) {
	router, _ := newTestRouter(t)
	performJSON(t, router, http.MethodPost, "/v1/carts/a/items", carthttpmapper.AddItemPayload{ID: "p1", Title: "Product 1", Price: 6})
	performJSON(t, router, http.MethodPost, "/v1/carts/b/items", carthttpmapper.AddItemPayload{ID: "p2", Title: "Product 2", Price: 4})

	recorder := performJSON(t, router, http.MethodGet, "/v1/carts", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var carts []carthttpmapper.Cart
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &carts))
	require.Len(t, carts, 2)
	require.Equal(t, "a", carts[0].CartID)
	require.Equal(t, "b", carts[1].CartID)
}

func TestCurrentNotificationLifecycle(t *testing.T) {
	router, notifService := newTestRouter(t)

	recorder := performJSON(t, router, http.MethodGet, "/v1/notifications/current", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	_, err := notifService.Show(context.Background(), domain.StatusPending, "Sending...", "Sending cart data!")
	require.NoError(t, err)

	recorder = performJSON(t, router, http.MethodGet, "/v1/notifications/current", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var view NotificationView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.Equal(t, "pending", view.Status)
	require.NotEmpty(t, view.ID)

	recorder = performJSON(t, router, http.MethodDelete, "/v1/notifications/current", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = performJSON(t, router, http.MethodGet, "/v1/notifications/current", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := performJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}
