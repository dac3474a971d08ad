package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal/core"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	connectNoBrowser bool
	connectTimeout   time.Duration
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Authorize Google Fit access",
	Long: `Open the Google consent page and wait for the redirect on the configured
GOOGLE_REDIRECT_URL. The server must not be listening on that address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(ctx context.Context, c *core.Core) error {
			res, err := c.Conn.InitiateConnect(ctx)
			if err != nil {
				return err
			}
			if res.Connected {
				fmt.Println(okStyle.Render("Already connected to Google Fit"))
				return nil
			}
			return awaitRedirect(ctx, c, res.RedirectURL)
		})
	},
}

func init() {
	connectCmd.Flags().BoolVar(&connectNoBrowser, "no-browser", false, "Print the consent URL instead of opening it")
	connectCmd.Flags().DurationVar(&connectTimeout, "timeout", 5*time.Minute, "How long to wait for the redirect")
	rootCmd.AddCommand(connectCmd)
}

// parseRedirect validates the configured redirect URL. An empty path means "/".
func parseRedirect(raw string) (*url.URL, error) {
	redirect, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("bad redirect url: %w", err)
	}
	if redirect.Host == "" {
		return nil, fmt.Errorf("redirect url %q has no host", raw)
	}
	if redirect.Path == "" {
		redirect.Path = "/"
	}
	return redirect, nil
}

type redirectResult struct {
	handled bool
	err     error
}

// awaitRedirect serves the redirect path once and hands the landing URL to
// the connector.
func awaitRedirect(ctx context.Context, c *core.Core, consentURL string) error {
	redirect, err := parseRedirect(c.Conn.RedirectURL())
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}

	done := make(chan redirectResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		landing := *redirect
		landing.RawQuery = r.URL.RawQuery
		handled, _, err := c.Conn.HandleRedirect(r.Context(), &landing)
		if !handled {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "Google Fit authorization failed. You can close this tab.", http.StatusBadGateway)
		} else {
			fmt.Fprintln(w, "Connected to Google Fit. You can close this tab.")
		}
		select {
		case done <- redirectResult{handled: true, err: err}:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- redirectResult{err: err}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if connectNoBrowser {
		fmt.Println("Open this URL to authorize:")
		fmt.Println(consentURL)
	} else if err := browser.OpenURL(consentURL); err != nil {
		fmt.Println(warnStyle.Render("Could not open a browser; open this URL instead:"))
		fmt.Println(consentURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	select {
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		fmt.Println(okStyle.Render("Connected to Google Fit"))
		return nil
	case <-waitCtx.Done():
		return fmt.Errorf("no redirect received: %w", waitCtx.Err())
	}
}
