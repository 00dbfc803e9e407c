package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"eop-planner-be/internal/config"
	"eop-planner-be/internal/pkg/logger"
)

// ProxyController forwards /proxy/* requests to the external planning
// backend, preserving method, query string and body. A dead backend yields a
// structured JSON error instead of a hung request.
type IProxyController interface {
	RegisterRoutes(r fiber.Router)
	Forward(ctx *fiber.Ctx) error
}

type proxyController struct {
	cfg    config.BackendConfig
	logger logger.ILogger
}

func NewProxyController(cfg config.BackendConfig, log logger.ILogger) IProxyController {
	return &proxyController{cfg: cfg, logger: log}
}

func (c *proxyController) RegisterRoutes(r fiber.Router) {
	r.All("/proxy/*", c.Forward)
}

func (c *proxyController) Forward(ctx *fiber.Ctx) error {
	path := ctx.Params("*")
	target := fmt.Sprintf("%s/%s", strings.TrimRight(c.cfg.BaseURL, "/"), path)
	if qs := string(ctx.Request().URI().QueryString()); qs != "" {
		target = target + "?" + qs
	}

	if err := proxy.DoTimeout(ctx, target, c.cfg.ProxyTimeout); err != nil {
		if c.logger != nil {
			c.logger.Warn("ProxyController", "Backend request failed", map[string]interface{}{
				"target": target,
				"error":  err,
			})
		}
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"code":    fiber.StatusBadGateway,
			"message": "planning backend unreachable",
		})
	}

	// Fiber keeps the upstream status and body on the response.
	ctx.Response().Header.Del(fiber.HeaderServer)
	return nil
}
