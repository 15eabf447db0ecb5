package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	carthttpmapper "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/http/mapper"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Cart  string
	Title string
	Price float64
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "add <item-id>",
		Short:         "Add one unit of an item to a cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := carthttpmapper.AddItemPayload{ID: args[0], Title: opts.Title, Price: opts.Price}
			cart, err := requestCart(opts.RootOptions, http.MethodPost, cartItemsPath(opts.Cart), payload)
			if err != nil {
				return err
			}
			printCart(cmd, cart)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Cart, "cart", "default", "cart to mutate")
	cmd.Flags().StringVar(&opts.Title, "title", "", "item display name")
	cmd.Flags().Float64Var(&opts.Price, "price", 0, "unit price of the item")

	return cmd
}

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Cart string
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "remove <item-id>",
		Short:         "Remove one unit of an item from a cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cartItemsPath(opts.Cart) + "/" + url.PathEscape(args[0])
			cart, err := requestCart(opts.RootOptions, http.MethodDelete, path, nil)
			if err != nil {
				return err
			}
			printCart(cmd, cart)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Cart, "cart", "default", "cart to mutate")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var cartID string

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show the contents of a cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := requestCart(rootOpts, http.MethodGet, "/v1/carts/"+url.PathEscape(cartID), nil)
			if err != nil {
				return err
			}
			printCart(cmd, cart)
			return nil
		},
	}

	cmd.Flags().StringVar(&cartID, "cart", "default", "cart to show")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all known carts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(rootOpts, http.MethodGet, "/v1/carts", nil)
			if err != nil {
				return err
			}
			var carts []carthttpmapper.Cart
			if err := json.Unmarshal(body, &carts); err != nil {
				return fmt.Errorf("decode cart list: %w", err)
			}
			for _, cart := range carts {
				printCart(cmd, cart)
			}
			return nil
		},
	}

	return cmd
}

func cartItemsPath(cartID string) string {
	return "/v1/carts/" + url.PathEscape(cartID) + "/items"
}

func requestCart(opts *RootOptions, method, path string, payload any) (carthttpmapper.Cart, error) {
	body, err := doRequest(opts, method, path, payload)
	if err != nil {
		return carthttpmapper.Cart{}, err
	}
	var cart carthttpmapper.Cart
	if err := json.Unmarshal(body, &cart); err != nil {
		return carthttpmapper.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

func doRequest(opts *RootOptions, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, opts.url(path), reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s failed: %s: %s", method, path, resp.Status, bytes.TrimSpace(body))
	}
	return body, nil
}

func printCart(cmd *cobra.Command, cart carthttpmapper.Cart) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cart %s (items: %d", cart.CartID, cart.TotalQuantity)
	if cart.Changed {
		fmt.Fprint(out, ", unsynced")
	}
	fmt.Fprintln(out, ")")
	for _, line := range cart.Items {
		fmt.Fprintf(out, "  %s  %q  %d x %.2f = %.2f\n", line.ID, line.Name, line.Quantity, line.Price, line.TotalPrice)
	}
}
