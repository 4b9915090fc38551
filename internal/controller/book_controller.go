package controller

import (
	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/serverutils"
	"library-service-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Patch(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type bookController struct {
	service service.IBookService
	auth    fiber.Handler
}

func NewBookController(service service.IBookService, auth fiber.Handler) IBookController {
	return &bookController{service: service, auth: auth}
}

func (c *bookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/books")
	h.Use(c.auth, serverutils.RequireStaff)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Patch("/:id", c.Patch)
	h.Delete("/:id", c.Delete)
}

func (c *bookController) GetAll(ctx *fiber.Ctx) error {
	filter := dto.BookFilter{
		PageQuery:       pageQuery(ctx),
		Title:           ctx.Query("title"),
		AuthorId:        ctx.Query("author-id"),
		AuthorFirstName: ctx.Query("author-first-name"),
		AuthorLastName:  ctx.Query("author-last-name"),
		Cover:           ctx.Query("cover"),
		Available:       flag(ctx, "available"),
		Unavailable:     flag(ctx, "unavailable"),
	}

	res, err := c.service.List(ctx.UserContext(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all books", res))
}

func (c *bookController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get book", res))
}

func (c *bookController) Create(ctx *fiber.Ctx) error {
	var req dto.BookRequest
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
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create book", res))
}

func (c *bookController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.BookRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Success update book", res))
}

func (c *bookController) Patch(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.BookPatchRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Success update book", res))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete book", nil))
}
