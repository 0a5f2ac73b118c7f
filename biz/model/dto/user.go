package dto

type SignupReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"max=128"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type SignupResp struct {
	UserID      uint   `json:"user_id,omitempty"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token,omitempty"`
	ExpiresAt   int64  `json:"expires_at,omitempty"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginResp struct {
	UserID      uint   `json:"user_id,omitempty"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	LoginCount  uint   `json:"login_count,omitempty"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type RefreshTokenReq struct {
}

type RefreshTokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type LogoutReq struct{}

type LogoutResp struct{}

type GetUserInfoReq struct{}

type GetUserInfoResp struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	LoginCount uint   `json:"login_count"`
	LastLogin  int64  `json:"last_login"`
	CreatedAt  int64  `json:"created_at"`
}

type ListLoginsReq struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type LoginEventItem struct {
	LoginTime int64  `json:"login_time"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

type ListLoginsResp struct {
	Logins []LoginEventItem `json:"logins"`
}
