package controller

import (
	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/serverutils"
	"library-service-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthorController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Patch(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Subscribe(ctx *fiber.Ctx) error
	Unsubscribe(ctx *fiber.Ctx) error
	Subscriptions(ctx *fiber.Ctx) error
}

type authorController struct {
	service service.IAuthorService
	auth    fiber.Handler
}

func NewAuthorController(service service.IAuthorService, auth fiber.Handler) IAuthorController {
	return &authorController{service: service, auth: auth}
}

func (c *authorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/authors")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Post("", serverutils.RequireStaff, c.Create)
	h.Get("/subscriptions", c.Subscriptions)
	h.Get("/:id", c.Show)
	h.Put("/:id", serverutils.RequireStaff, c.Update)
	h.Patch("/:id", serverutils.RequireStaff, c.Patch)
	h.Delete("/:id", serverutils.RequireStaff, c.Delete)
	h.Post("/:id/subscribe", c.Subscribe)
	h.Delete("/:id/subscribe", c.Unsubscribe)
}

func (c *authorController) GetAll(ctx *fiber.Ctx) error {
	filter := dto.AuthorFilter{
		PageQuery: pageQuery(ctx),
		FirstName: ctx.Query("first-name"),
		LastName:  ctx.Query("last-name"),
		NoBooks:   flag(ctx, "no-books"),
		HasBooks:  flag(ctx, "has-books"),
	}
	var err error
	if filter.BooksCount, err = optionalInt(ctx, "books-count"); err != nil {
		return err
	}
	if filter.BooksGt, err = optionalInt(ctx, "books-gt"); err != nil {
		return err
	}
	if filter.BooksLt, err = optionalInt(ctx, "books-lt"); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all authors", res))
}

func (c *authorController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get author", res))
}

func (c *authorController) Create(ctx *fiber.Ctx) error {
	var req dto.AuthorRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create author", res))
}

func (c *authorController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.AuthorRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update author", res))
}

func (c *authorController) Patch(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.AuthorPatchRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Patch(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update author", res))
}

func (c *authorController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete author", nil))
}

func (c *authorController) Subscribe(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Subscribe(ctx.UserContext(), actor.UserId, id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Subscribed", res))
}

func (c *authorController) Unsubscribe(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Unsubscribe(ctx.UserContext(), actor.UserId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Unsubscribed", nil))
}

func (c *authorController) Subscriptions(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListSubscriptions(ctx.UserContext(), actor.UserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get subscriptions", res))
}
