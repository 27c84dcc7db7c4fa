package dto

import (
	"video-analyzer-service/internal/app/service"
)

// AnalyzeResponse wraps a completed analysis envelope.
type AnalyzeResponse struct {
	Message string            `json:"message"`
	Data    *service.Envelope `json:"data"`
}

// FromEnvelope builds the success response for an analysis.
func FromEnvelope(envelope *service.Envelope) AnalyzeResponse {
	return AnalyzeResponse{
		Message: "analysis complete",
		Data:    envelope,
	}
}

// StatusResponse is the static liveness answer for GET /api/analyze.
type StatusResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
