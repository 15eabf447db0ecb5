package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type notificationPayload struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
	At      string `json:"at"`
}

// NewNotificationsCommand creates the notifications command group.
func NewNotificationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect and follow sync notifications",
	}
	cmd.AddCommand(newNotificationsCurrentCommand(rootOpts))
	cmd.AddCommand(newNotificationsWatchCommand(rootOpts))
	cmd.AddCommand(newNotificationsClearCommand(rootOpts))
	return cmd
}

func newNotificationsCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "current",
		Short:         "Print the latest notification",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rootOpts.client().Get(rootOpts.url("/v1/notifications/current"))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusNoContent {
				fmt.Fprintln(cmd.OutOrStdout(), "no active notification")
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch notification failed: %s", resp.Status)
			}
			var payload notificationPayload
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("decode notification: %w", err)
			}
			printNotification(cmd, payload)
			return nil
		},
	}
}

func newNotificationsClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Dismiss the latest notification",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodDelete, rootOpts.url("/v1/notifications/current"), nil)
			if err != nil {
				return err
			}
			resp, err := rootOpts.client().Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				return fmt.Errorf("clear notification failed: %s", resp.Status)
			}
			return nil
		},
	}
}

func newNotificationsWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "watch",
		Short:         "Stream notification transitions until interrupted",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := websocketURL(rootOpts.Addr)
			if err != nil {
				return err
			}
			conn, resp, err := websocket.DefaultDialer.DialContext(cmd.Context(), endpoint, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", endpoint, err)
			}
			if resp != nil {
				defer resp.Body.Close()
			}
			defer conn.Close()

			go func() {
				<-cmd.Context().Done()
				conn.Close()
			}()

			for {
				var payload notificationPayload
				if err := conn.ReadJSON(&payload); err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return fmt.Errorf("read notification stream: %w", err)
				}
				printNotification(cmd, payload)
			}
		},
	}
}

func websocketURL(addr string) (string, error) {
	parsed, err := url.Parse(strings.TrimRight(addr, "/"))
	if err != nil {
		return "", fmt.Errorf("parse --addr: %w", err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in --addr", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/v1/notifications/ws"
	return parsed.String(), nil
}

func printNotification(cmd *cobra.Command, payload notificationPayload) {
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s %s: %s\n", payload.At, payload.Status, payload.Title, payload.Message)
}
