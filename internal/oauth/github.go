package oauth

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"passport/internal/platform/config"
	dErrors "passport/pkg/domain-errors"
)

// GitHub exchanges OAuth codes against the GitHub API. A GitHub identity
// only verifies if the account exposes a verified email: an unverified email
// proves nothing about account ownership.
type GitHub struct {
	cfg    config.OAuthProvider
	client *http.Client

	// Overridable in tests.
	authorizeEndpoint string
	tokenEndpoint     string
	apiBase           string
}

func NewGitHub(cfg config.OAuthProvider) *GitHub {
	return &GitHub{
		cfg:               cfg,
		client:            newHTTPClient(),
		authorizeEndpoint: "https://github.com/login/oauth/authorize",
		tokenEndpoint:     "https://github.com/login/oauth/access_token",
		apiBase:           "https://api.github.com",
	}
}

func (g *GitHub) Name() string { return ProviderGitHub }

func (g *GitHub) AuthorizeURL(state string) string {
	query := url.Values{
		"client_id":    {g.cfg.ClientID},
		"redirect_uri": {g.cfg.RedirectURL},
		"scope":        {g.cfg.Scopes},
		"state":        {state},
	}
	return g.authorizeEndpoint + "?" + query.Encode()
}

type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) Exchange(ctx context.Context, code string) (*Identity, error) {
	form := url.Values{
		"client_id":     {g.cfg.ClientID},
		"client_secret": {g.cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {g.cfg.RedirectURL},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build github token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token githubTokenResponse
	if err := doJSON(g.client, req, &token); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "github code exchange failed")
	}
	if token.Error != "" || token.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "github rejected the authorization code")
	}

	user, err := g.fetchUser(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	email, err := g.fetchVerifiedEmail(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	return &Identity{
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Email:          email,
		EmailVerified:  true,
		Name:           name,
		Profile: map[string]any{
			"login": user.Login,
		},
	}, nil
}

func (g *GitHub) fetchUser(ctx context.Context, accessToken string) (*githubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+"/user", nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build github user request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user githubUser
	if err := doJSON(g.client, req, &user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "fetch github user failed")
	}
	return &user, nil
}

func (g *GitHub) fetchVerifiedEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+"/user/emails", nil)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "build github emails request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var emails []githubEmail
	if err := doJSON(g.client, req, &emails); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "fetch github emails failed")
	}

	var verified string
	for _, candidate := range emails {
		if !candidate.Verified {
			continue
		}
		if candidate.Primary {
			return candidate.Email, nil
		}
		if verified == "" {
			verified = candidate.Email
		}
	}
	if verified == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "github account has no verified email")
	}
	return verified, nil
}

var _ Exchanger = (*GitHub)(nil)
