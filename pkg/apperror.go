package pkg

import "fmt"

// AppError is the error shape handlers hand back to clients.
//
// Err keeps the underlying cause for logs; it is never serialized.
type AppError struct {
	Code       string
	Message    string
	Details    any
	Err        error
	HTTPStatus int
}

// HTTPError is the JSON body of a failed request.
type HTTPError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func NewDomainError(code, message string, err error, status int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: status}
}

func NewDomainErrorSimple(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// WithDetails attaches structured context (field errors, budget overshoot) to the response.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{
		Success: false,
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}
