package common

// APIResponse 通用响应结构，用于封装成功或失败结果。
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK 构造成功响应。
func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Fail 构造失败响应。
func Fail(err string) APIResponse {
	return APIResponse{Success: false, Error: err}
}
