package models

// APIResponse is a generic API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse creates a success response with a human-readable message
func NewMessageResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   "Validation failed",
		Errors:  errors,
	}
}

// Pagination echoes the caller-supplied paging window.
type Pagination struct {
	Limit int64 `json:"limit"`
	Skip  int64 `json:"skip"`
}

// PagedResponse wraps a filtered list with its total and paging window.
type PagedResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int64       `json:"total"`
	Pagination Pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
}

// UserListResponse wraps the admin user table with its aggregate totals.
type UserListResponse struct {
	Success bool            `json:"success"`
	Data    []UserWithStats `json:"data"`
	Stats   *UserStats      `json:"stats"`
}
