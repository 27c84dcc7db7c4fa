// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"video-analyzer-service/internal/app/service"
	"video-analyzer-service/internal/transport/httpserver/dto"
	"video-analyzer-service/internal/validator"
)

// AnalyzeHandler handles video analysis HTTP requests.
type AnalyzeHandler struct {
	service   *service.AnalyzeService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(svc *service.AnalyzeService, v *validator.Validator, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Analyze handles POST /api/analyze
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "invalid video link",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	envelope, err := h.service.Analyze(c.Context(), req.URL)
	if err != nil {
		var resErr *service.ResolutionError
		if errors.As(err, &resErr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: resErr.Reason,
				Code:  "RESOLUTION_FAILED",
			})
		}

		h.logger.Error("analysis failed", zap.String("url", req.URL), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "analysis failed, try again later",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromEnvelope(envelope))
}

// Status handles GET /api/analyze
func (h *AnalyzeHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Message: "Video Analysis API"})
}
