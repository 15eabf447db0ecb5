package cartserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/http/mapper"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// CartAPI wires HTTP transport with the cart bounded context service.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI creates a CartAPI backed by the provided service.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Post /v1/carts/:cartId/items
// Add one unit of an item to the cart
func (api *CartAPI) AddCartItem(c *gin.Context) {
	cartID := c.Param("cartId")
	var payload carthttpmapper.AddItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.AddItem(c.Request.Context(), carthttpmapper.ToAddItemInput(cartID, payload))
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromProjection(saved))
}

// Delete /v1/carts/:cartId/items/:itemId
// Remove one unit of an item from the cart
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	input := carttypes.RemoveItemInput{CartID: c.Param("cartId"), ItemID: c.Param("itemId")}
	updated, err := api.service.RemoveItem(c.Request.Context(), input)
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromProjection(updated))
}

// Get /v1/carts/:cartId
// Fetch a cart by ID
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.GetByID(c.Request.Context(), carttypes.CartIdentifier{CartID: c.Param("cartId")})
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromProjection(cart))
}

// Put /v1/carts/:cartId
// Replace cart contents wholesale
func (api *CartAPI) ReplaceCart(c *gin.Context) {
	cartID := c.Param("cartId")
	var payload carthttpmapper.ReplaceCartPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.Replace(c.Request.Context(), carthttpmapper.ToReplaceInput(cartID, payload))
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromProjection(updated))
}

// Get /v1/carts
// List all known carts
func (api *CartAPI) ListCarts(c *gin.Context) {
	result, err := api.service.List(c.Request.Context())
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromProjectionList(result))
}

func respondCartServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, cartapp.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if errors.Is(err, cartapp.ErrInvalidInput) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	respondError(c, http.StatusInternalServerError, err)
}
