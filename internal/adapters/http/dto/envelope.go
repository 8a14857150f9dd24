// Package dto provides request and response shapes for the HTTP adapter.
// The wire format is the success/data envelope existing clients already
// depend on, so the keys here are load-bearing.
package dto

// Response is the standard success envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the standard error envelope. Errors carries the ordered
// violation messages for validation failures.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	TraceID string   `json:"traceId,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps data in a success envelope with a message.
func OKMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds an error envelope with a message only.
func Fail(message string) *ErrorResponse {
	return &ErrorResponse{Success: false, Message: message}
}

// FailWithErrors builds an error envelope carrying violation messages.
func FailWithErrors(message string, errs []string) *ErrorResponse {
	return &ErrorResponse{Success: false, Message: message, Errors: errs}
}
