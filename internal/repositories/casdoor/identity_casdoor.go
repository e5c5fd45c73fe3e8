package casdoor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

var ErrInvalidIdentity = errors.New("casdoor identity is missing an email")

// tokenSource is the part of the casdoor client used for the code exchange
type tokenSource interface {
	GetOAuthToken(code, state string) (accessToken string, err error)
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

type sdkTokenSource struct {
	client *casdoorsdk.Client
}

func (s sdkTokenSource) GetOAuthToken(code, state string) (string, error) {
	token, err := s.client.GetOAuthToken(code, state)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func (s sdkTokenSource) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	return s.client.ParseJwtToken(token)
}

// IdentityCasdoor signs users in through a casdoor OAuth application
type IdentityCasdoor struct {
	tokens   tokenSource
	endpoint string
	clientID string
}

func NewIdentityCasdoor(cfg config.CasdoorConfig) repositories.IdentityProvider {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &IdentityCasdoor{
		tokens:   sdkTokenSource{client: client},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		clientID: cfg.ClientID,
	}
}

// AuthCodeURL builds the casdoor authorize URL the browser is redirected to
func (p *IdentityCasdoor) AuthCodeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", "read")
	q.Set("state", state)
	return p.endpoint + "/login/oauth/authorize?" + q.Encode()
}

// Exchange trades the authorization code for a token and reads the user from its claims
func (p *IdentityCasdoor) Exchange(ctx context.Context, code, state string) (*repositories.ExternalIdentity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accessToken, err := p.tokens.GetOAuthToken(code, state)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange casdoor code: %w", err)
	}

	claims, err := p.tokens.ParseJwtToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casdoor token: %w", err)
	}

	return identityFromClaims(claims)
}

func identityFromClaims(claims *casdoorsdk.Claims) (*repositories.ExternalIdentity, error) {
	email := strings.ToLower(strings.TrimSpace(claims.User.Email))
	if email == "" {
		return nil, ErrInvalidIdentity
	}

	name := claims.User.DisplayName
	if name == "" {
		name = claims.User.Name
	}

	return &repositories.ExternalIdentity{
		Subject:   claims.User.Id,
		Email:     email,
		Name:      name,
		AvatarURL: claims.User.Avatar,
		Role:      mapCasdoorType(claims.User.Type),
	}, nil
}

// mapCasdoorType maps the casdoor user type onto a sign-up role
func mapCasdoorType(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "teacher", "instructor", "educator":
		return models.RoleEducator
	default:
		return models.RoleStudent
	}
}
