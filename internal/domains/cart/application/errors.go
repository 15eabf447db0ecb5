package application

import (
	"errors"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

var (
	// ErrNotFound indicates the requested cart does not exist.
	ErrNotFound = errors.New("cart not found")
	// ErrInvalidInput indicates the command failed a domain invariant.
	ErrInvalidInput = errors.New("invalid cart input")
)

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, domain.ErrEmptyCartID),
		errors.Is(err, domain.ErrEmptyItemID),
		errors.Is(err, domain.ErrInvalidPrice):
		return errors.Join(ErrInvalidInput, err)
	default:
		return err
	}
}
