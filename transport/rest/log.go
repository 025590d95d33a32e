package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIdLocalsKey = "request_id"

func LogHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(requestIdLocalsKey, uuid.NewString())
		requestLog(ctx).Infoln("Handling request.")
		return ctx.Next()
	}
}
