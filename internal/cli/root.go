package cli

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Addr    string
	Timeout time.Duration
}

// NewRootCommand creates the root command for the cartctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Command line client for the cart API",
		Long:  "cartctl drives the cart HTTP API: add and remove items, inspect carts, and follow sync notifications.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.Addr) == "" {
				return fmt.Errorf("--addr must not be empty")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "http://localhost:8080", "base URL of the cart API")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewNotificationsCommand(opts))

	return cmd
}

func (o *RootOptions) client() *http.Client {
	return &http.Client{Timeout: o.Timeout}
}

func (o *RootOptions) url(path string) string {
	return strings.TrimRight(o.Addr, "/") + path
}
