package models

// AuditRequest is the payload for POST /api/audit.
type AuditRequest struct {
	// URL is the page to audit. Required. A missing scheme defaults to
	// https.
	URL string `json:"url" binding:"required"`
}

// ContentRequest holds the query parameters for GET /api/content.
type ContentRequest struct {
	// URL is the page to preview. Required.
	URL string `form:"url" binding:"required"`

	// Selector is an optional CSS selector that narrows the HTML before
	// content extraction.
	Selector string `form:"selector"`
}
