package authgw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"docsmith/be/biz/config"
	"docsmith/be/biz/model/domain"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

var (
	ErrInvalidCredentials  = errors.New("auth provider rejected credentials")
	ErrSignupRejected      = errors.New("auth provider rejected signup")
	ErrProviderUnavailable = errors.New("auth provider unavailable")
)

// Client talks to the hosted auth provider. Credential verification, token
// issuance and refresh all live on the provider side; this client only
// relays requests and hands back the identity triple plus tokens untouched.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	hc      *client.Client
}

func New(conf config.AuthProviderConf) *Client {
	hc, err := client.NewClient()
	if err != nil {
		panic(err)
	}

	timeout := 10 * time.Second
	if conf.TimeoutSeconds > 0 {
		timeout = time.Duration(conf.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL: conf.BaseURL,
		apiKey:  conf.APIKey,
		timeout: timeout,
		hc:      hc,
	}
}

func NewDefault() *Client {
	return New(config.GetAuthProviderConf())
}

type credentialsBody struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Data     any    `json:"data,omitempty"`
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			FullName string `json:"full_name"`
		} `json:"user_metadata"`
	} `json:"user"`
}

func (b *sessionBody) identity() *domain.Identity {
	expAt := b.ExpiresAt
	if expAt == 0 && b.ExpiresIn > 0 {
		expAt = time.Now().Unix() + b.ExpiresIn
	}
	return &domain.Identity{
		ProviderID:   b.User.ID,
		Email:        b.User.Email,
		Name:         b.User.UserMetadata.FullName,
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		ExpiresAt:    expAt,
	}
}

// SignIn performs the password grant and returns the verified identity.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	var sess sessionBody
	status, err := c.post(ctx, "/token?grant_type=password",
		credentialsBody{Email: email, Password: password}, "", &sess)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: sign in status %d", ErrProviderUnavailable, status)
	}
	return sess.identity(), nil
}

// SignUp registers the credentials with the provider. Providers that require
// email confirmation return no session yet; the identity then carries empty
// tokens and the caller treats the signup as pending.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*domain.Identity, error) {
	body := credentialsBody{Email: email, Password: password}
	if name != "" {
		body.Data = map[string]string{"full_name": name}
	}

	var sess sessionBody
	status, err := c.post(ctx, "/signup", body, "", &sess)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
		return nil, ErrSignupRejected
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: signup status %d", ErrProviderUnavailable, status)
	}

	return sess.identity(), nil
}

// Refresh rotates the token pair through the provider's refresh grant.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.Identity, error) {
	var sess sessionBody
	status, err := c.post(ctx, "/token?grant_type=refresh_token",
		refreshBody{RefreshToken: refreshToken}, "", &sess)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: refresh status %d", ErrProviderUnavailable, status)
	}
	return sess.identity(), nil
}

// SignOut revokes the provider session. Best effort: callers log failures
// and clear local state regardless.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	status, err := c.post(ctx, "/logout", nil, accessToken, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("%w: logout status %d", ErrProviderUnavailable, status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, bearer string, out any) (int, error) {
	req := protocol.AcquireRequest()
	res := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(res)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		req.SetBody(payload)
	}

	if err := c.hc.DoTimeout(ctx, req, res, c.timeout); err != nil {
		hlog.CtxErrorf(ctx, "auth provider request %s err: %v", path, err)
		return 0, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	status := res.StatusCode()
	if out != nil && status < http.StatusInternalServerError && len(res.Body()) > 0 {
		if err := json.Unmarshal(res.Body(), out); err != nil && status == http.StatusOK {
			return status, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
		}
	}
	return status, nil
}
