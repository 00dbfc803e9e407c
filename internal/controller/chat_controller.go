package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/pkg/serverutils"
	"eop-planner-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{chatService: chatService}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStateMismatch):
			return chatError(ctx, fiber.StatusInternalServerError, req.SessionId, "Conversation state is inconsistent.")
		case errors.Is(err, service.ErrConflictRetriesExhausted):
			return chatError(ctx, fiber.StatusConflict, req.SessionId, "Too many concurrent updates, please retry.")
		default:
			return err
		}
	}

	return ctx.JSON(res)
}

// Driver failures still answer in the chat body shape so the client renders
// them inline instead of breaking the conversation view.
func chatError(ctx *fiber.Ctx, code int, sessionId, message string) error {
	return ctx.Status(code).JSON(dto.ChatResponse{
		Response:  message,
		SessionId: sessionId,
		Status:    constant.ChatStatusError,
	})
}
