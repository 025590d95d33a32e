package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/devcard/devcard"
	"github.com/gofiber/fiber/v2"
)

type CardViewer interface {
	View(ctx context.Context, userId devcard.UserId) (devcard.ProfileView, error)
}

type CardRegistrar interface {
	Register(ctx context.Context, reg devcard.Registration) (devcard.UserId, error)
}

type CardController struct {
	Viewer    CardViewer
	Registrar CardRegistrar
}

func (c *CardController) InstallTo(app *fiber.App) {
	app.Get("/cards/:user_id", c.serveCard)
	app.Post("/cards", c.serveRegister)
}

func (c *CardController) serveCard(ctx *fiber.Ctx) error {
	userId := strings.TrimSpace(ctx.Params("user_id"))
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no user id")
	}

	view, err := c.Viewer.View(ctx.Context(), devcard.UserId(userId))
	if err != nil {
		if errors.Is(err, devcard.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "card not found")
		} else {
			return fmt.Errorf("view card: %w", err)
		}
	}
	return ctx.JSON(view)
}

// Select inputs post their value as a string, api clients usually as a number.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("form value %s: %w", data, err)
		}
		*v = formValue(data)
		return nil
	}
}

func (c *CardController) serveRegister(ctx *fiber.Ctx) error {
	body := struct {
		UserId      string    `json:"userId"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		SkillId     formValue `json:"skillId"`
		GithubId    string    `json:"githubId"`
		QiitaId     string    `json:"qiitaId"`
		XId         string    `json:"xId"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		requestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	userId, err := c.Registrar.Register(ctx.Context(), devcard.Registration{
		UserId:      body.UserId,
		Name:        body.Name,
		Description: body.Description,
		SkillId:     string(body.SkillId),
		GithubId:    body.GithubId,
		QiitaId:     body.QiitaId,
		XId:         body.XId,
	})
	if err != nil {
		switch {
		case errors.Is(err, devcard.ErrValidation):
			return err
		case errors.Is(err, devcard.ErrUserIdTaken):
			return fiber.NewError(fiber.StatusConflict, "user id already taken")
		default:
			return fmt.Errorf("register card: %w", err)
		}
	}

	requestLog(ctx).WithField("user_id", userId).Infoln("Card registered.")
	return ctx.Status(fiber.StatusCreated).JSON(map[string]interface{}{
		"userId": userId,
	})
}
