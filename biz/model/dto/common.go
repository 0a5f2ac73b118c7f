package dto

type CommonResp struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	// Warning carries non-fatal degradation, e.g. "authenticated but the
	// login event could not be recorded". Success stays true.
	Warning string `json:"warning,omitempty"`
}
