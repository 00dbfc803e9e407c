package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/pkg/serverutils"
	"eop-planner-be/internal/service"
	"eop-planner-be/pkg/realtime"
)

type IProposalController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type proposalController struct {
	proposalService service.IProposalService
	broker          *realtime.Broker
	logger          logger.ILogger
}

func NewProposalController(proposalService service.IProposalService, broker *realtime.Broker, log logger.ILogger) IProposalController {
	return &proposalController{
		proposalService: proposalService,
		broker:          broker,
		logger:          log,
	}
}

func (c *proposalController) RegisterRoutes(r fiber.Router) {
	r.Get("/proposal", c.Get)
	r.Post("/proposal", c.Create)
	r.Post("/generate_proposal", c.Generate)
}

// Get serves either one proposal snapshot (?session_id=) or, with
// ?stream=true, a server-sent-event stream of every snapshot published for
// the lifetime of the connection.
func (c *proposalController) Get(ctx *fiber.Ctx) error {
	if ctx.Query("stream") == "true" {
		return c.stream(ctx)
	}

	sessionId := ctx.Query("session_id")
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	res, err := c.proposalService.GetBySession(ctx.Context(), sessionId)
	if err != nil {
		if errors.Is(err, service.ErrProposalNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "proposal not found")
		}
		return err
	}

	return ctx.JSON(res)
}

func (c *proposalController) stream(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	broker := c.broker
	log := c.logger

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		messages, err := broker.Subscribe(streamCtx)
		if err != nil {
			if log != nil {
				log.Error("ProposalController", "Failed to subscribe to snapshot stream", map[string]interface{}{"error": err})
			}
			return
		}

		for msg := range messages {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg.Payload); err != nil {
				msg.Nack()
				return
			}
			if err := w.Flush(); err != nil {
				// Client went away.
				msg.Nack()
				return
			}
			msg.Ack()
		}
	}))

	return nil
}

func (c *proposalController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProposalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.proposalService.GetOrCreate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Proposal ready", res))
}

func (c *proposalController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateProposalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.proposalService.GenerateSection(ctx.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProposalNotFound):
			return fiber.NewError(fiber.StatusNotFound, "proposal not found")
		case errors.Is(err, service.ErrInsufficientResponses):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	return ctx.JSON(res)
}
