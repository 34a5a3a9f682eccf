// Package web provides HTTP handlers and REST API endpoints for configuration sessions.
package web

import (
	"net/http"
	"time"

	"github.com/dukex/alchemist/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	sessionService *services.Session
	rulesService   *services.Rules
	weightsService *services.Weights
	exportService  *services.Export
	validator      *validator.Validate
}

func NewAPIHandlers(
	sessionService *services.Session,
	rulesService *services.Rules,
	weightsService *services.Weights,
	exportService *services.Export,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		sessionService: sessionService,
		rulesService:   rulesService,
		weightsService: weightsService,
		exportService:  exportService,
		validator:      validator,
	}
}

// Register mounts every session endpoint on router.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Post("/validate", h.Validate)
	router.Post("/rules/parse", h.ParseRule)

	s := router.Group("/sessions")
	s.Get("/", h.GetSessions)
	s.Post("/", h.CreateSession)
	s.Get("/:id", h.GetSession)
	s.Delete("/:id", h.DeleteSession)
	s.Put("/:id/datasets/:dataset", h.ReplaceDataset)
	s.Get("/:id/validation", h.GetValidation)
	s.Post("/:id/rules", h.AddRule)
	s.Put("/:id/rules/:ruleId", h.ReparseRule)
	s.Delete("/:id/rules/:ruleId", h.RemoveRule)
	s.Put("/:id/weights", h.UpdateWeights)
	s.Get("/:id/config", h.GetConfig)
	s.Get("/:id/export/:dataset", h.ExportDataset)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.sessionService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Alchemist API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Alchemist API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) Validate(c fiber.Ctx) error {
	var req ValidateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	report := h.sessionService.ValidateSnapshot(c.Context(), req.Snapshot())

	return c.JSON(NewValidationResponse(report))
}

func (h *APIHandlers) ParseRule(c fiber.Ctx) error {
	var req ParseRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	return c.JSON(h.rulesService.Parse(c.Context(), req.Text))
}

func (h *APIHandlers) GetSessions(c fiber.Ctx) error {
	sessions, err := h.sessionService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, TransformSessionSummary(session))
	}

	return c.JSON(summaries)
}

func (h *APIHandlers) CreateSession(c fiber.Ctx) error {
	var req CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.sessionService.Create(c.Context(), services.CreateSessionRequest{
		Name:                  req.Name,
		Clients:               req.Clients,
		Workers:               req.Workers,
		Tasks:                 req.Tasks,
		PrioritizationWeights: req.PrioritizationWeights,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	session, err := h.sessionService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) DeleteSession(c fiber.Ctx) error {
	if err := h.sessionService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ReplaceDataset(c fiber.Ctx) error {
	report, err := h.sessionService.ReplaceDataset(c.Context(), c.Params("id"), c.Params("dataset"), c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NewValidationResponse(report))
}

func (h *APIHandlers) GetValidation(c fiber.Ctx) error {
	report, err := h.sessionService.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NewValidationResponse(report))
}

func (h *APIHandlers) AddRule(c fiber.Ctx) error {
	var req ParseRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	rule, err := h.rulesService.Add(c.Context(), c.Params("id"), req.Text)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func (h *APIHandlers) ReparseRule(c fiber.Ctx) error {
	var req ParseRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	rule, err := h.rulesService.Reparse(c.Context(), c.Params("id"), c.Params("ruleId"), req.Text)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) RemoveRule(c fiber.Ctx) error {
	if err := h.rulesService.Remove(c.Context(), c.Params("id"), c.Params("ruleId")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateWeights(c fiber.Ctx) error {
	var req UpdateWeightsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	weights, err := h.weightsService.Update(c.Context(), c.Params("id"), req.PrioritizationWeights)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"prioritizationWeights": weights})
}

func (h *APIHandlers) GetConfig(c fiber.Ctx) error {
	doc, err := h.weightsService.Config(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(doc)
}

func (h *APIHandlers) ExportDataset(c fiber.Ctx) error {
	doc, err := h.exportService.Dataset(c.Context(), c.Params("id"), c.Params("dataset"), c.Query("format"))
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Attachment(doc.Filename)
	c.Set(fiber.HeaderContentType, doc.ContentType)

	return c.Send(doc.Body)
}
