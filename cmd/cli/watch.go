package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchAPI    string
	watchToken  string
	watchPretty bool
)

var bookingsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the admin live feed of booking events",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := watchToken
		if token == "" {
			token = os.Getenv("CONSULTHUB_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("--token or CONSULTHUB_TOKEN is required")
		}
		wsURL, err := feedURL(watchAPI)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for {
			err := streamEvents(ctx, wsURL, token, watchPretty, cmd.OutOrStdout())
			if ctx.Err() != nil {
				return nil
			}
			zap.L().Warn("feed disconnected, reconnecting", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	},
}

func init() {
	bookingsWatchCmd.Flags().StringVar(&watchAPI, "api", "http://localhost:8080", "API base URL")
	bookingsWatchCmd.Flags().StringVar(&watchToken, "token", "", "admin bearer token")
	bookingsWatchCmd.Flags().BoolVar(&watchPretty, "pretty", true, "pretty print JSON events")
	bookingsCmd.AddCommand(bookingsWatchCmd)
}

// feedURL turns an API base URL into the websocket feed URL.
func feedURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", eris.Wrap(err, "watch: parse api url")
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", eris.Errorf("watch: unsupported scheme %q", u.Scheme)
	}
	u.Path += "/admin/ws"
	return u.String(), nil
}

// streamEvents copies feed events to out until the connection drops or ctx
// is cancelled.
func streamEvents(ctx context.Context, wsURL, token string, pretty bool, out io.Writer) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return eris.Wrapf(err, "watch: dial %s (%s)", wsURL, resp.Status)
		}
		return eris.Wrapf(err, "watch: dial %s", wsURL)
	}
	defer ws.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = ws.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return eris.Wrap(err, "watch: read")
		}
		if !pretty {
			fmt.Fprintln(out, strings.TrimSpace(string(msg)))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(msg, &obj); err != nil {
			fmt.Fprintln(out, strings.TrimSpace(string(msg)))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Fprintln(out, string(b))
	}
}
