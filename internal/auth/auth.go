// Package auth runs the OAuth2 PKCE login against Twitter and keeps the resulting token.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/lepinkainen/babble/pkg/api"
)

// Twitter OAuth2 endpoints.
const (
	AuthURL   = "https://twitter.com/i/oauth2/authorize"
	TokenURL  = "https://api.twitter.com/2/oauth2/token"
	RevokeURL = "https://api.twitter.com/2/oauth2/revoke"
)

// DefaultRedirectPort is the port of the local callback server.
const DefaultRedirectPort = 8080

// Scopes needed to read timelines and lists. offline.access yields a refresh token.
var Scopes = []string{"tweet.read", "users.read", "list.read", "offline.access"}

// Config holds the OAuth2 client registration.
type Config struct {
	ClientID     string
	ClientSecret string
	// RedirectPort is the local callback port registered with the app. Zero picks a free port.
	RedirectPort int
	// Endpoint overrides the Twitter endpoints, used by tests.
	Endpoint *oauth2.Endpoint
}

// OAuthConfig builds the oauth2 configuration for redirectURL.
func (c Config) OAuthConfig(redirectURL string) *oauth2.Config {
	endpoint := oauth2.Endpoint{
		AuthURL:   AuthURL,
		TokenURL:  TokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}
	if c.Endpoint != nil {
		endpoint = *c.Endpoint
	}
	if c.ClientSecret == "" {
		// Public clients send the id in the form body.
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     endpoint,
	}
}

func (c Config) redirectURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback", port)
}

// Flow performs the interactive login.
type Flow struct {
	Config Config
	Store  *TokenStore
	// HTTPClient is used for the token exchange. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// OpenBrowser shows the authorization page to the user. Defaults to the system browser.
	OpenBrowser func(url string) error
	Logger      *slog.Logger
}

// Login starts a local callback server, sends the user to the authorization
// page and exchanges the returned code for a token, which is saved to the store.
func (f *Flow) Login(ctx context.Context) (*oauth2.Token, error) {
	logger := f.logger()

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.Config.RedirectPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	oauthConfig := f.Config.OAuthConfig(f.Config.redirectURL(port))
	state, err := randomState()
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	codes := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		callbackHandler(w, r, state, codes)
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down HTTP server", "error", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	logger.Info("Opening browser for Twitter authentication", "url", authURL)
	if err := f.openBrowser(authURL); err != nil {
		logger.Warn("Failed to open browser, open the URL manually", "url", authURL, "error", err)
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-codes:
	}
	if result.err != nil {
		return nil, fmt.Errorf("authentication failed: %w", result.err)
	}

	token, err := f.exchange(ctx, oauthConfig, result.code, verifier)
	if err != nil {
		return nil, err
	}

	if err := f.Store.Save(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	logger.Info("Authentication successful, token saved", "path", f.Store.Path())
	return token, nil
}

// exchange swaps the authorization code for a token, retrying when rate limited.
func (f *Flow) exchange(ctx context.Context, oauthConfig *oauth2.Config, code, verifier string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient())
	policy := api.DefaultRetryPolicy()

	for attempt := 1; ; attempt++ {
		token, err := oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err == nil {
			return token, nil
		}

		var retrieveErr *oauth2.RetrieveError
		rateLimited := errors.As(err, &retrieveErr) &&
			retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode == http.StatusTooManyRequests
		if !rateLimited || attempt >= policy.MaxAttempts {
			return nil, fmt.Errorf("failed to exchange authorization code for token after %d attempts: %w", attempt, err)
		}

		backoff := policy.CalculateBackoff(attempt)
		f.logger().Warn("Rate limited, retrying", "backoff", backoff)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Client returns an HTTP client that authorizes requests with tok, refreshing
// it when it expires and saving refreshed tokens to store. base carries the
// requests, including token refreshes.
func Client(ctx context.Context, cfg Config, store *TokenStore, tok *oauth2.Token, base *http.Client) *http.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	oauthConfig := cfg.OAuthConfig(cfg.redirectURL(cfg.RedirectPort))
	source := &persistingSource{
		base:  oauthConfig.TokenSource(ctx, tok),
		store: store,
		last:  tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, source))
}

// Revoke invalidates tok at Twitter. Callers treat failures as advisory.
func Revoke(ctx context.Context, cfg Config, tok *oauth2.Token, client *http.Client) error {
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := RevokeURL
	if cfg.Endpoint != nil {
		endpoint = strings.TrimSuffix(cfg.Endpoint.TokenURL, "/token") + "/revoke"
	}

	form := url.Values{
		"token":           {tok.AccessToken},
		"token_type_hint": {"access_token"},
		"client_id":       {cfg.ClientID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cfg.ClientSecret != "" {
		req.SetBasicAuth(url.QueryEscape(cfg.ClientID), url.QueryEscape(cfg.ClientSecret))
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to revoke token: %w", &api.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status})
	}
	return nil
}

type callbackResult struct {
	code string
	err  error
}

// callbackHandler handles the redirect from Twitter after user authentication.
func callbackHandler(w http.ResponseWriter, r *http.Request, state string, results chan<- callbackResult) {
	query := r.URL.Query()

	var result callbackResult
	switch {
	case query.Get("error") != "":
		result.err = fmt.Errorf("authorization denied: %s", query.Get("error"))
	case query.Get("state") != state:
		result.err = errors.New("state mismatch")
	case query.Get("code") == "":
		result.err = errors.New("no authorization code received")
	default:
		result.code = query.Get("code")
	}

	if result.err != nil {
		slog.Error("OAuth2 callback error", "error", result.err)
		fmt.Fprintf(w, "Authentication failed: %v. Please check the console for details.", result.err)
	} else {
		fmt.Fprint(w, "Authentication successful! You can close this browser tab.")
	}

	// Only the first callback counts.
	select {
	case results <- result:
	default:
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (f *Flow) openBrowser(u string) error {
	if f.OpenBrowser != nil {
		return f.OpenBrowser(u)
	}
	return OpenBrowser(u)
}

func (f *Flow) httpClient() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return http.DefaultClient
}

func (f *Flow) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// OpenBrowser opens the given URL in the default web browser.
func OpenBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}
	args = append(args, url)
	return exec.Command(cmd, args...).Start()
}
