package rest

import (
	"fmt"

	"github.com/devcard/devcard"
	"github.com/gofiber/fiber/v2"
)

type SkillController struct {
	Store devcard.SkillStore
}

func (c *SkillController) InstallTo(app *fiber.App) {
	app.Get("/skills", c.serveSkills)
}

func (c *SkillController) serveSkills(ctx *fiber.Ctx) error {
	skills, err := c.Store.All(ctx.Context())
	if err != nil {
		return fmt.Errorf("all skills: %w", err)
	}

	type Skill struct {
		Id   int64  `json:"id"`
		Name string `json:"name"`
	}
	mapped := make([]Skill, len(skills))
	for i, s := range skills {
		mapped[i] = Skill{Id: int64(s.Id), Name: s.Name}
	}
	return ctx.JSON(mapped)
}
