// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

// AnalyzeRequest represents the request body for video analysis.
type AnalyzeRequest struct {
	URL string `json:"url" validate:"required,url"`
}
