package controller

import (
	"github.com/gofiber/fiber/v2"

	"eop-planner-be/internal/service"
)

type IRulesController interface {
	RegisterRoutes(r fiber.Router)
	Seed(ctx *fiber.Ctx) error
}

type rulesController struct {
	rulesService service.IRulesService
}

func NewRulesController(rulesService service.IRulesService) IRulesController {
	return &rulesController{rulesService: rulesService}
}

func (c *rulesController) RegisterRoutes(r fiber.Router) {
	r.Post("/updateRules", c.Seed)
}

func (c *rulesController) Seed(ctx *fiber.Ctx) error {
	created, err := c.rulesService.Seed(ctx.Context())
	if err != nil {
		return err
	}

	if !created {
		return ctx.JSON(fiber.Map{
			"success": false,
			"message": "Rule catalog already exists.",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Rule catalog created.",
	})
}
