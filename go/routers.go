package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine add routes to existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc returns 501 Not Implemented.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handler sets bound to the router.
type ApiHandleFunctions struct {
	CartAPI         CartAPI
	NotificationAPI NotificationAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"AddCartItem",
			http.MethodPost,
			"/v1/carts/:cartId/items",
			handleFunctions.CartAPI.AddCartItem,
		},
		{
			"RemoveCartItem",
			http.MethodDelete,
			"/v1/carts/:cartId/items/:itemId",
			handleFunctions.CartAPI.RemoveCartItem,
		},
		{
			"GetCart",
			http.MethodGet,
			"/v1/carts/:cartId",
			handleFunctions.CartAPI.GetCart,
		},
		{
			"ReplaceCart",
			http.MethodPut,
			"/v1/carts/:cartId",
			handleFunctions.CartAPI.ReplaceCart,
		},
		{
			"ListCarts",
			http.MethodGet,
			"/v1/carts",
			handleFunctions.CartAPI.ListCarts,
		},
		{
			"GetCurrentNotification",
			http.MethodGet,
			"/v1/notifications/current",
			handleFunctions.NotificationAPI.GetCurrentNotification,
		},
		{
			"ClearNotification",
			http.MethodDelete,
			"/v1/notifications/current",
			handleFunctions.NotificationAPI.ClearNotification,
		},
		{
			"StreamNotifications",
			http.MethodGet,
			"/v1/notifications/ws",
			handleFunctions.NotificationAPI.StreamNotifications,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			healthz,
		},
	}
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
