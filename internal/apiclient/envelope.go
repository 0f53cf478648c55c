package apiclient

// Envelope is the backend's standard response wrapper.
type Envelope[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Page is a single page of a paginated listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}
