package models

// CleanupRequest carries the per-invocation inputs of a cleanup run.
type CleanupRequest struct {
	PathSSOID  string
	QuerySSOID string
	Actor      string
	RequestID  string
}

// DeletionResult is the outcome of deleting a single matched account.
type DeletionResult struct {
	UserID  string `json:"user_id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// CleanupResult is the success-path response body.
type CleanupResult struct {
	Message string           `json:"message"`
	SSOID   string           `json:"ssoid"`
	Count   int              `json:"count"`
	Results []DeletionResult `json:"results"`
}
