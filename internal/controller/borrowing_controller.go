package controller

import (
	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/serverutils"
	"library-service-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBorrowingController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Return(ctx *fiber.Ctx) error
}

type borrowingController struct {
	service service.IBorrowingService
	auth    fiber.Handler
}

func NewBorrowingController(service service.IBorrowingService, auth fiber.Handler) IBorrowingController {
	return &borrowingController{service: service, auth: auth}
}

func (c *borrowingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/borrowings")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Post("/:id/return", c.Return)
}

func (c *borrowingController) GetAll(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	filter := dto.BorrowingFilter{PageQuery: pageQuery(ctx)}
	if filter.UserIds, err = uuidList(ctx, "user_id"); err != nil {
		return err
	}
	if filter.IsActive, err = optionalBool(ctx, "is_active"); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all borrowings", res))
}

func (c *borrowingController) Show(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get borrowing", res))
}

func (c *borrowingController) Create(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateBorrowingRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return checkout(ctx, fiber.StatusCreated, "Borrowing created", res)
}

func (c *borrowingController) Return(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Return(ctx.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return checkout(ctx, fiber.StatusOK, "Borrowing returned", res)
}

// checkout answers 307 with a Location header when the caller has a session to pay.
func checkout(ctx *fiber.Ctx, status int, message string, res *dto.BorrowingCheckoutResponse) error {
	if res.SessionUrl == "" {
		resp := serverutils.SuccessResponse(message, res)
		resp.Code = status
		return ctx.Status(status).JSON(resp)
	}

	ctx.Set(fiber.HeaderLocation, res.SessionUrl)
	resp := serverutils.SuccessResponse(message+", payment required", res)
	resp.Code = fiber.StatusTemporaryRedirect
	return ctx.Status(fiber.StatusTemporaryRedirect).JSON(resp)
}
