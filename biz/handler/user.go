package handler

import (
	"context"
	"net/http"

	"docsmith/be/biz/middleware/authn"
	"docsmith/be/biz/model/dto"
	"docsmith/be/biz/model/errs"
	"docsmith/be/biz/service/account"
	"docsmith/be/biz/util/resp"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// GetUserInfo 获取用户信息接口
//
//	@Tags			user
//	@Summary		获取用户信息接口
//	@Description	获取用户信息接口
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string	true	"bearer token"
//	@Success		200				{object}	dto.CommonResp{data=dto.GetUserInfoResp}
//	@Router			/api/v1/user/info [GET]
func GetUserInfo(ctx context.Context, c *app.RequestContext) {
	var req dto.GetUserInfoReq
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxNoticef(ctx, "BindAndValidate err: %v", err)
		resp.AbortWithErr(c, errs.ParamError, http.StatusBadRequest)
		return
	}

	payload := authn.GetPayload(ctx)
	if payload.ProviderID == "" {
		resp.FailResp(c, errs.Unauthorized)
		return
	}

	// read-only resolution, no reconciliation write
	u, bizErr := account.NewDefault().GetByID(ctx, payload.ProviderID)
	if bizErr != nil {
		resp.FailResp(c, bizErr)
		return
	}

	resp.SuccessResp(c, dto.GetUserInfoResp{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		LoginCount: u.LoginCount,
		LastLogin:  u.LastLogin.Unix(),
		CreatedAt:  u.CreatedAt.Unix(),
	})
}

// ListLogins 获取登录历史接口
//
//	@Tags			user
//	@Summary		获取登录历史接口
//	@Description	获取登录历史接口
//	@Accept			json
//	@Produce		json
//	@Param			limit			query		int		false	"max events"
//	@Param			Authorization	header		string	true	"bearer token"
//	@Success		200				{object}	dto.CommonResp{data=dto.ListLoginsResp}
//	@Router			/api/v1/user/logins [GET]
func ListLogins(ctx context.Context, c *app.RequestContext) {
	var req dto.ListLoginsReq
	if err := c.BindAndValidate(&req); err != nil {
		hlog.CtxNoticef(ctx, "BindAndValidate err: %v", err)
		resp.AbortWithErr(c, errs.ParamError, http.StatusBadRequest)
		return
	}

	payload := authn.GetPayload(ctx)
	if payload.ProviderID == "" {
		resp.FailResp(c, errs.Unauthorized)
		return
	}

	svc := account.NewDefault()
	u, bizErr := svc.GetByID(ctx, payload.ProviderID)
	if bizErr != nil {
		resp.FailResp(c, bizErr)
		return
	}

	events, bizErr := svc.RecentLogins(ctx, u.ID, req.Limit)
	if bizErr != nil {
		resp.FailResp(c, bizErr)
		return
	}

	out := dto.ListLoginsResp{Logins: make([]dto.LoginEventItem, 0, len(events))}
	for _, e := range events {
		out.Logins = append(out.Logins, dto.LoginEventItem{
			LoginTime: e.LoginTime.Unix(),
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
		})
	}

	resp.SuccessResp(c, out)
}
