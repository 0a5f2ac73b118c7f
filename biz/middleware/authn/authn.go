package authn

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"docsmith/be/biz/config"
	"docsmith/be/biz/model/errs"
	"docsmith/be/biz/util/resp"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/sessions"
)

var (
	ErrUnexpectedJwtMethod = errors.New("unexpected jwt method")
	ErrJwtInvalid          = errors.New("jwt is invalid")
	ErrJwtExpired          = errors.New("jwt is expired")
)

const refreshTokenCookie = "docsmith_refresh_token"

// ValidateMW verifies the access token the auth provider issued (shared
// HS256 secret) and binds it to the live dashboard session. Tokens are never
// minted here; a bad token is the provider's verdict, not ours.
func ValidateMW() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		conf := config.GetAuthProviderConf()
		jwtStr := exactJWT(c)
		if jwtStr == "" {
			hlog.CtxInfof(ctx, "authorization failed, token is empty")
			resp.AbortWithErr(c, errs.Unauthorized, http.StatusUnauthorized)
			return
		}

		claims, err := validateToken(jwtStr, conf.JWTSecret)
		if err != nil {
			hlog.CtxInfof(ctx, "jwt invalid: %v", err)
			resp.AbortWithErr(c, errs.Unauthorized, http.StatusUnauthorized)
			return
		}

		sess := sessions.Default(c)
		if sess.ID() == "" {
			hlog.CtxInfof(ctx, "session missing")
			resp.AbortWithErr(c, errs.SessionExpired, http.StatusUnauthorized)
			return
		}
		if pid, _ := sess.Get("provider_id").(string); pid != "" && pid != claims.Subject {
			hlog.CtxInfof(ctx, "token subject does not match session")
			resp.AbortWithErr(c, errs.Unauthorized, http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, Payload{}, &Payload{
			ProviderID: claims.Subject,
			Email:      claims.Email,
		})

		c.Next(ctx)
	}
}

type Payload struct {
	ProviderID string `json:"provider_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

func GetPayload(ctx context.Context) Payload {
	p, ok := ctx.Value(Payload{}).(*Payload)
	if ok {
		return *p
	}
	return Payload{}
}

func validateToken(tokenStr, secret string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrHashUnavailable
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrHashUnavailable) {
			return nil, ErrUnexpectedJwtMethod
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrJwtInvalid
		}
		return nil, err
	}
	if !token.Valid {
		return nil, ErrJwtInvalid
	}

	return &claims, nil
}

func exactJWT(c *app.RequestContext) string {
	v := c.Request.Header.Get("Authorization")
	return strings.TrimPrefix(v, "Bearer ")
}

// SetRefreshTokenCookie stores the provider refresh token; HttpOnly so the
// dashboard scripts never see it.
func SetRefreshTokenCookie(c *app.RequestContext, token string, expiresAt int64) {
	conf := config.GetSessionConf()
	maxAge := int(time.Until(time.Unix(expiresAt, 0)).Seconds())
	if expiresAt == 0 || maxAge <= 0 {
		maxAge = 30 * 24 * 3600
	}
	c.SetCookie(refreshTokenCookie, token, maxAge, "/", conf.Domain,
		protocolSameSite(conf.SameSite), conf.Secure, true)
}

func GetRefreshTokenFromCookie(c *app.RequestContext) string {
	return string(c.Cookie(refreshTokenCookie))
}

func ClearRefreshTokenCookie(c *app.RequestContext) {
	conf := config.GetSessionConf()
	c.SetCookie(refreshTokenCookie, "", -1, "/", conf.Domain,
		protocolSameSite(conf.SameSite), conf.Secure, true)
}

func protocolSameSite(v string) protocol.CookieSameSite {
	switch v {
	case "Lax":
		return protocol.CookieSameSiteLaxMode
	case "None":
		return protocol.CookieSameSiteNoneMode
	case "Strict":
		fallthrough
	default:
		return protocol.CookieSameSiteStrictMode
	}
}
