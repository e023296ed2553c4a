package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider names accepted by the flow.
const (
	ProviderGitHub   = "github"
	ProviderLinkedIn = "linkedin"
)

// Identity is the provider-neutral result of a successful code exchange.
type Identity struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	Profile        map[string]any
}

// Exchanger is one external identity provider: it builds the authorize URL
// and turns a callback code into a verified identity.
type Exchanger interface {
	Name() string
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

const exchangeTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: exchangeTimeout}
}

// doJSON performs the request and decodes the JSON body into out.
func doJSON(client *http.Client, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
