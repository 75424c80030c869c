package dto

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// Warning is attached to otherwise successful responses when the change was
// applied in memory but could not be saved
type Warning struct {
	Warning string `json:"warning,omitempty"`
}
