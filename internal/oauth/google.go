// Package oauth implementa el flujo authorization-code contra Google.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"login-signup/internal/domain"
)

const (
	googleUserInfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
	defaultHTTPTimeout = 10 * time.Second
)

var ErrProfileUnavailable = errors.New("provider profile unavailable")

// Profile son los datos que devuelve el endpoint userinfo.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider envuelve la configuracion oauth2 de Google.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (p *GoogleProvider) Name() string {
	return domain.ProviderGoogle
}

// NewState genera el valor aleatorio que se guarda en la cookie de estado.
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL devuelve la URL de consentimiento de Google.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Profile canjea el codigo y obtiene el perfil del usuario.
func (p *GoogleProvider) Profile(ctx context.Context, code string) (Profile, error) {
	if strings.TrimSpace(code) == "" {
		return Profile{}, errors.New("missing authorization code")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: userinfo status %d", ErrProfileUnavailable, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return Profile{}, fmt.Errorf("%w: missing email", ErrProfileUnavailable)
	}
	return profile, nil
}
