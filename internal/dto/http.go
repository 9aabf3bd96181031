package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorData tells clients which domain error occurred.
type ErrorData struct {
	Kind string `json:"kind"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

func NewErrorResponse(code int, message, kind string) *BaseResponse {
	if kind == "" {
		return NewBaseResponse(code, message, nil)
	}
	return NewBaseResponse(code, message, ErrorData{Kind: kind})
}
