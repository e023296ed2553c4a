package oauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"passport/internal/platform/config"
	dErrors "passport/pkg/domain-errors"
)

// LinkedIn exchanges OAuth codes using LinkedIn's OpenID Connect userinfo
// endpoint.
type LinkedIn struct {
	cfg    config.OAuthProvider
	client *http.Client

	// Overridable in tests.
	authorizeEndpoint string
	tokenEndpoint     string
	userinfoEndpoint  string
}

func NewLinkedIn(cfg config.OAuthProvider) *LinkedIn {
	return &LinkedIn{
		cfg:               cfg,
		client:            newHTTPClient(),
		authorizeEndpoint: "https://www.linkedin.com/oauth/v2/authorization",
		tokenEndpoint:     "https://www.linkedin.com/oauth/v2/accessToken",
		userinfoEndpoint:  "https://api.linkedin.com/v2/userinfo",
	}
}

func (l *LinkedIn) Name() string { return ProviderLinkedIn }

func (l *LinkedIn) AuthorizeURL(state string) string {
	query := url.Values{
		"response_type": {"code"},
		"client_id":     {l.cfg.ClientID},
		"redirect_uri":  {l.cfg.RedirectURL},
		"scope":         {l.cfg.Scopes},
		"state":         {state},
	}
	return l.authorizeEndpoint + "?" + query.Encode()
}

type linkedinTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type linkedinUserinfo struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Locale        any    `json:"locale"`
}

func (l *LinkedIn) Exchange(ctx context.Context, code string) (*Identity, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {l.cfg.ClientID},
		"client_secret": {l.cfg.ClientSecret},
		"redirect_uri":  {l.cfg.RedirectURL},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build linkedin token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token linkedinTokenResponse
	if err := doJSON(l.client, req, &token); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "linkedin code exchange failed")
	}
	if token.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "linkedin rejected the authorization code")
	}

	infoReq, err := http.NewRequestWithContext(ctx, http.MethodGet, l.userinfoEndpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build linkedin userinfo request")
	}
	infoReq.Header.Set("Authorization", "Bearer "+token.AccessToken)

	var info linkedinUserinfo
	if err := doJSON(l.client, infoReq, &info); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "fetch linkedin userinfo failed")
	}
	if info.Sub == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "linkedin userinfo missing subject")
	}

	return &Identity{
		ProviderUserID: info.Sub,
		Email:          info.Email,
		EmailVerified:  info.EmailVerified,
		Name:           info.Name,
		Profile: map[string]any{
			"locale": info.Locale,
		},
	}, nil
}

var _ Exchanger = (*LinkedIn)(nil)
