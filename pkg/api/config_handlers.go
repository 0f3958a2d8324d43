package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/open-teleop/headtrack/pkg/config"
	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/services"
)

// TuningHandler holds dependencies for tuning API endpoints.
type TuningHandler struct {
	tuningService services.TuningService
	logger        customlog.Logger
}

// NewTuningHandler creates a new handler for tuning endpoints.
func NewTuningHandler(tuningService services.TuningService, logger customlog.Logger) *TuningHandler {
	if tuningService == nil {
		panic("TuningService cannot be nil in NewTuningHandler")
	}
	if logger == nil {
		panic("Logger cannot be nil in NewTuningHandler")
	}
	return &TuningHandler{
		tuningService: tuningService,
		logger:        logger,
	}
}

// RegisterTuningRoutes registers the tuning API endpoints with the Fiber app.
func RegisterTuningRoutes(app *fiber.App, tuningService services.TuningService, logger customlog.Logger) {
	h := NewTuningHandler(tuningService, logger)

	apiGroup := app.Group("/api/v1/config")
	apiGroup.Get("/tuning", h.handleGetTuning)
	apiGroup.Put("/tuning", h.handleUpdateTuning)

	logger.Infof("Registered tuning API endpoints under /api/v1/config")
}

func (h *TuningHandler) handleGetTuning(c *fiber.Ctx) error {
	yamlData, err := h.tuningService.CurrentYAML()
	if err != nil {
		h.logger.Errorf("Failed to get current tuning YAML: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to retrieve tuning: %v", err),
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.Send(yamlData)
}

func (h *TuningHandler) handleUpdateTuning(c *fiber.Ctx) error {
	switch c.Get(fiber.HeaderContentType) {
	case "application/x-yaml", "application/yaml", "text/yaml":
	default:
		// Accepted anyway; curl sends form encoding unless told otherwise.
		h.logger.Warnf("Received tuning PUT with Content-Type %q", c.Get(fiber.HeaderContentType))
	}

	newTuningYAML := c.Body()
	if len(newTuningYAML) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Request body cannot be empty.",
		})
	}

	if err := h.tuningService.Update(newTuningYAML); err != nil {
		if errors.Is(err, config.ErrInvalidTuning) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Tuning update failed: %v", err),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Internal server error during tuning update: %v", err),
		})
	}

	current := h.tuningService.Current()
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Tuning updated successfully.",
		"version": current.Version,
	})
}
