package handler

import (
	"context"
	"errors"
	"net/http"

	"docsmith/be/biz/dal/authgw"
	"docsmith/be/biz/middleware/authn"
	"docsmith/be/biz/middleware/session"
	"docsmith/be/biz/model/domain"
	"docsmith/be/biz/model/dto"
	"docsmith/be/biz/model/errs"
	"docsmith/be/biz/service/account"
	"docsmith/be/biz/util/resp"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/sessions"
)

// Signup 用户注册接口
//
//	@Tags			auth
//	@Summary		用户注册接口
//	@Description	用户注册接口
//	@Accept			json
//	@Produce		json
//	@Param			req	body		dto.SignupReq	true	"signup request body"
//	@Success		200	{object}	dto.CommonResp{data=dto.SignupResp}
//	@Router			/api/v1/auth/signup [POST]
func Signup(ctx context.Context, c *app.RequestContext) {
	var req dto.SignupReq
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxNoticef(ctx, "BindAndValidate err: %v", err)
		resp.AbortWithErr(c, errs.ParamError.SetMsg(err.Error()), http.StatusBadRequest)
		return
	}

	identity, err := authgw.NewDefault().SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, authgw.ErrSignupRejected) {
			resp.FailResp(c, errs.SignupRejected)
			return
		}
		hlog.CtxErrorf(ctx, "provider signup err: %v", err)
		resp.FailResp(c, errs.ServerError.SetErr(err))
		return
	}

	out := dto.SignupResp{Email: identity.Email}

	// Providers requiring email confirmation return no session yet; the
	// local row is created on the first real login instead.
	if identity.AccessToken == "" {
		resp.SuccessResp(c, out)
		return
	}

	u, warning := syncProfile(ctx, c, identity)
	if u != nil {
		out.UserID = u.ID
	}
	out.AccessToken = identity.AccessToken
	out.ExpiresAt = identity.ExpiresAt

	if bizErr := saveSession(c, identity, u); bizErr != nil {
		resp.FailResp(c, bizErr)
		return
	}
	authn.SetRefreshTokenCookie(c, identity.RefreshToken, 0)

	resp.SuccessRespWithWarning(c, out, warning)
}

// Login 用户登录接口
//
//	@Tags			auth
//	@Summary		用户登录接口
//	@Description	用户登录接口
//	@Accept			json
//	@Produce		json
//	@Param			req	body		dto.LoginReq	true	"login request body"
//	@Success		200	{object}	dto.CommonResp{data=dto.LoginResp}
//	@Header			200	{string}	set-cookie	"cookie"
//	@Router			/api/v1/auth/login [POST]
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginReq
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxNoticef(ctx, "BindAndValidate err: %v", err)
		resp.AbortWithErr(c, errs.ParamError.SetMsg(err.Error()), http.StatusBadRequest)
		return
	}

	identity, err := authgw.NewDefault().SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authgw.ErrInvalidCredentials) {
			resp.FailResp(c, errs.AuthFailed)
			return
		}
		hlog.CtxErrorf(ctx, "provider sign in err: %v", err)
		resp.FailResp(c, errs.ServerError.SetErr(err))
		return
	}

	// Credentials are verified at this point. Nothing below is allowed to
	// turn the login into a failure; profile sync degrades to a warning.
	u, warning := syncProfile(ctx, c, identity)

	if bizErr := saveSession(c, identity, u); bizErr != nil {
		resp.FailResp(c, bizErr)
		return
	}
	authn.SetRefreshTokenCookie(c, identity.RefreshToken, 0)

	out := dto.LoginResp{
		Email:       identity.Email,
		AccessToken: identity.AccessToken,
		ExpiresAt:   identity.ExpiresAt,
	}
	if u != nil {
		out.UserID = u.ID
		out.Name = u.Name
		out.LoginCount = u.LoginCount
	}

	resp.SuccessRespWithWarning(c, out, warning)
}

// RefreshToken 刷新token接口
//
//	@Tags			auth
//	@Summary		刷新token接口
//	@Description	刷新token接口
//	@Accept			json
//	@Produce		json
//	@Param			req	body		dto.RefreshTokenReq	true	"refresh token request body"
//	@Success		200	{object}	dto.CommonResp{data=dto.RefreshTokenResp}
//	@Header			200	{string}	set-cookie	"cookie"
//	@Router			/api/v1/auth/refresh_token [POST]
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenReq
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxNoticef(ctx, "BindAndValidate err: %v", err)
		resp.AbortWithErr(c, errs.ParamError, http.StatusBadRequest)
		return
	}

	refreshToken := authn.GetRefreshTokenFromCookie(c)
	if refreshToken == "" {
		hlog.CtxNoticef(ctx, "refresh token cookie is empty")
		resp.FailResp(c, errs.Unauthorized)
		return
	}

	identity, err := authgw.NewDefault().Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, authgw.ErrInvalidCredentials) {
			resp.FailResp(c, errs.Unauthorized)
			return
		}
		hlog.CtxErrorf(ctx, "provider refresh err: %v", err)
		resp.FailResp(c, errs.ServerError.SetErr(err))
		return
	}
	authn.SetRefreshTokenCookie(c, identity.RefreshToken, 0)

	resp.SuccessResp(c, dto.RefreshTokenResp{
		AccessToken: identity.AccessToken,
		ExpiresAt:   identity.ExpiresAt,
	})
}

// Logout 用户登出接口
//
//	@Tags			auth
//	@Summary		用户登出接口
//	@Description	用户登出接口
//	@Accept			json
//	@Produce		json
//	@Param			req				body		dto.LogoutReq	true	"logout request body"
//	@Param			Authorization	header		string			true	"bearer token"
//	@Success		200				{object}	dto.CommonResp{data=dto.LogoutResp}
//	@Header			200				{string}	set-cookie	"cookie"
//	@Router			/api/v1/auth/logout [POST]
func Logout(ctx context.Context, c *app.RequestContext) {
	var req dto.LogoutReq
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxNoticef(ctx, "Logout BindAndValidate err: %v", err)
		resp.AbortWithErr(c, errs.ParamError, http.StatusBadRequest)
		return
	}

	if token := bearerToken(c); token != "" {
		// best effort, local state is cleared either way
		if err := authgw.NewDefault().SignOut(ctx, token); err != nil {
			hlog.CtxErrorf(ctx, "provider sign out err: %v", err)
		}
	}

	authn.ClearRefreshTokenCookie(c)
	if err := session.Remove(c); err != nil {
		hlog.CtxErrorf(ctx, "RemoveSession err: %v", err)
	}
	hlog.CtxInfof(ctx, "Logout success")
	resp.SuccessResp(c, dto.LogoutResp{})
}

// syncProfile reconciles the local row and records the login event. Both
// steps may fail without failing the request; the returned warning carries
// the degradation for the response envelope.
func syncProfile(ctx context.Context, c *app.RequestContext, identity *domain.Identity) (*domain.User, string) {
	origin := domain.Origin{
		IPAddress: c.ClientIP(),
		UserAgent: string(c.UserAgent()),
	}

	u, _, bizErr := account.NewDefault().UpdateUserLogin(ctx,
		identity.ProviderID, identity.Email, identity.Name, origin)
	if bizErr == nil {
		return u, ""
	}

	hlog.CtxWarnf(ctx, "profile sync degraded: %v", bizErr)
	return u, bizErr.Msg()
}

func saveSession(c *app.RequestContext, identity *domain.Identity, u *domain.User) errs.Error {
	sess := sessions.Default(c)
	sess.Set("provider_id", identity.ProviderID)
	sess.Set("email", identity.Email)
	if u != nil {
		sess.Set("user_id", u.ID)
		sess.Set("name", u.Name)
	}
	if err := sess.Save(); err != nil {
		return errs.ServerError.SetErr(err)
	}
	return nil
}

func bearerToken(c *app.RequestContext) string {
	v := c.Request.Header.Get("Authorization")
	if len(v) > 7 && v[:7] == "Bearer " {
		return v[7:]
	}
	return v
}
