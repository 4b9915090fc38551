package controller

import (
	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/pkg/serverutils"
	"library-service-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Renew(ctx *fiber.Ctx) error
	Success(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	auth    fiber.Handler
	logger  logger.ILogger
}

func NewPaymentController(service service.IPaymentService, auth fiber.Handler, log logger.ILogger) IPaymentController {
	return &paymentController{service: service, auth: auth, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")
	// Reached by the processor or the payer's browser, without a bearer token.
	h.Get("/success", c.Success)
	h.Get("/cancel", c.Cancel)
	h.Post("/midtrans/notification", c.Webhook)

	h.Get("", c.auth, c.GetAll)
	h.Get("/:id", c.auth, c.Show)
	h.Post("/:id/renew", c.auth, c.Renew)
}

func (c *paymentController) GetAll(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), actor, pageQuery(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all payments", res))
}

func (c *paymentController) Show(ctx *fiber.Ctx) error {
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
	return ctx.JSON(serverutils.SuccessResponse("Success get payment", res))
}

func (c *paymentController) Renew(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.RenewSession(ctx.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment session", res))
}

// Success accepts session_id, or order_id as appended by Midtrans on redirect.
func (c *paymentController) Success(ctx *fiber.Ctx) error {
	sessionId := ctx.Query("session_id")
	if sessionId == "" {
		sessionId = ctx.Query("order_id")
	}
	if sessionId == "" {
		return apperror.Validation("session_id is required")
	}

	res, err := c.service.ConfirmSession(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}
	if !res.Confirmed {
		resp := serverutils.SuccessResponse("Payment not confirmed yet", res)
		resp.Code = fiber.StatusAccepted
		return ctx.Status(fiber.StatusAccepted).JSON(resp)
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment was successful", res))
}

func (c *paymentController) Cancel(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse[any](
		"Payment can be made later, the session stays valid until it expires", nil))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("WEBHOOK", "Body parsing failed", map[string]interface{}{"error": err.Error()})
		return ctx.SendStatus(fiber.StatusBadRequest)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.logger.Info("WEBHOOK", "Notification received", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})

	res, err := c.service.HandleNotification(ctx.UserContext(), &req)
	if err != nil {
		// A non-2xx answer makes Midtrans retry the notification.
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification processed", res))
}
