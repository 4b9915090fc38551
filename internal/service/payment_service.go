package service

import (
	"context"
	"fmt"

	"library-service-be/internal/config"
	"library-service-be/internal/dto"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"
	"library-service-be/pkg/paymentgateway"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// waivedSessionPrefix marks payments of zero amount that never reached the processor.
const waivedSessionPrefix = "waived-"

type IPaymentService interface {
	List(ctx context.Context, actor entity.Actor, page dto.PageQuery) (*dto.PageResponse[dto.PaymentResponse], error)
	Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PaymentResponse, error)

	// CreateSession opens a processor session and stores the pending payment
	// through uow, so it commits or rolls back with the caller's transaction.
	CreateSession(ctx context.Context, uow unitofwork.UnitOfWork, borrowing *entity.Borrowing, amount decimal.Decimal, kind entity.PaymentType) (*entity.Payment, error)
	ConfirmSession(ctx context.Context, sessionId string) (*dto.ConfirmSessionResponse, error)
	RenewSession(ctx context.Context, actor entity.Actor, paymentId uuid.UUID) (*dto.PaymentResponse, error)
	SweepExpired(ctx context.Context) (int64, error)
	HandleNotification(ctx context.Context, req *dto.MidtransNotificationRequest) (*dto.ConfirmSessionResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	processor  paymentgateway.Processor
	notifier   INotifier
	cfg        config.PaymentConfig
	baseURL    string
	logger     logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	processor paymentgateway.Processor,
	notifier INotifier,
	cfg config.PaymentConfig,
	baseURL string,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		processor:  processor,
		notifier:   notifier,
		cfg:        cfg,
		baseURL:    baseURL,
		logger:     log,
	}
}

func (s *paymentService) List(ctx context.Context, actor entity.Actor, page dto.PageQuery) (*dto.PageResponse[dto.PaymentResponse], error) {
	page = page.Normalize()
	var specs []specification.Specification
	if !actor.IsStaff {
		specs = append(specs, specification.PaymentOwnedBy{UserID: actor.UserId})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.PaymentRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(page.Page, page.PageSize),
	)
	payments, err := uow.PaymentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		results = append(results, dto.NewPaymentResponse(p))
	}
	return &dto.PageResponse[dto.PaymentResponse]{
		Count:    count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  results,
	}, nil
}

// findAccessible loads a payment with its borrowing and checks the actor may see it.
func (s *paymentService) findAccessible(ctx context.Context, uow unitofwork.UnitOfWork, actor entity.Actor, id uuid.UUID) (*entity.Payment, error) {
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("payment", id)
	}
	if payment.Borrowing == nil || !actor.CanAccess(payment.Borrowing.UserId) {
		return nil, fmt.Errorf("%w: payment belongs to another user", apperror.ErrForbidden)
	}
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := s.findAccessible(ctx, s.uowFactory.NewUnitOfWork(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

func (s *paymentService) successURL() string {
	return s.baseURL + "/api/v1/payments/success"
}

func (s *paymentService) cancelURL() string {
	return s.baseURL + "/api/v1/payments/cancel"
}

func itemName(borrowing *entity.Borrowing, kind entity.PaymentType) string {
	title := "Book"
	if borrowing.Book != nil {
		title = borrowing.Book.Title
	}
	if kind == entity.PaymentTypeFee {
		return "Overdue fine: " + title
	}
	return "Rental: " + title
}

// openSession calls the processor under the configured timeout.
func (s *paymentService) openSession(ctx context.Context, borrowing *entity.Borrowing, amount decimal.Decimal, kind entity.PaymentType) (*paymentgateway.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	session, err := s.processor.CreateSession(ctx, paymentgateway.SessionRequest{
		OrderID:    uuid.NewString(),
		ItemName:   itemName(borrowing, kind),
		UnitAmount: paymentgateway.MinorUnits(amount),
		Quantity:   1,
		SuccessURL: s.successURL(),
		CancelURL:  s.cancelURL(),
		ExpiresIn:  s.cfg.SessionWindow,
	})
	if err != nil {
		s.logger.Error("PAYMENT", "Processor rejected session", map[string]interface{}{
			"borrowing_id": borrowing.Id.String(),
			"type":         string(kind),
			"error":        err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", apperror.ErrExternalProcessor, err)
	}
	return session, nil
}

func (s *paymentService) CreateSession(ctx context.Context, uow unitofwork.UnitOfWork, borrowing *entity.Borrowing, amount decimal.Decimal, kind entity.PaymentType) (*entity.Payment, error) {
	now := timeNow()
	payment := &entity.Payment{
		Id:          uuid.New(),
		Status:      entity.PaymentStatusPending,
		Type:        kind,
		BorrowingId: borrowing.Id,
		MoneyToPay:  amount.Round(2),
		ExpiresAt:   now.Add(s.cfg.SessionWindow),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if !amount.IsPositive() {
		// Nothing to collect: record it as settled without a processor session.
		payment.Status = entity.PaymentStatusPaid
		payment.MoneyToPay = decimal.Zero
		payment.SessionId = waivedSessionPrefix + payment.Id.String()
	} else {
		session, err := s.openSession(ctx, borrowing, amount, kind)
		if err != nil {
			return nil, err
		}
		payment.SessionId = session.ID
		payment.SessionUrl = session.URL
		if session.Amount > 0 {
			payment.MoneyToPay = decimal.New(session.Amount, -2)
		}
	}

	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ConfirmSession(ctx context.Context, sessionId string) (*dto.ConfirmSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("payment session", sessionId)
	}
	if payment.Status == entity.PaymentStatusPaid {
		return &dto.ConfirmSessionResponse{PaymentId: payment.Id, Status: string(payment.Status), Confirmed: true}, nil
	}

	statusCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	status, err := s.processor.SessionStatus(statusCtx, sessionId)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrExternalProcessor, err)
	}
	if status != paymentgateway.SessionPaid {
		return &dto.ConfirmSessionResponse{PaymentId: payment.Id, Status: string(payment.Status), Confirmed: false}, nil
	}

	return s.markPaid(ctx, payment)
}

// markPaid flips the payment to paid under a row lock and notifies once.
func (s *paymentService) markPaid(ctx context.Context, payment *entity.Payment) (*dto.ConfirmSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	locked, err := uow.PaymentRepository().FindOneForUpdate(ctx, payment.Id)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, apperror.NotFound("payment", payment.Id)
	}
	if locked.Status == entity.PaymentStatusPaid {
		return &dto.ConfirmSessionResponse{PaymentId: locked.Id, Status: string(locked.Status), Confirmed: true}, nil
	}

	locked.Status = entity.PaymentStatusPaid
	locked.UpdatedAt = timeNow()
	if err := uow.PaymentRepository().Update(ctx, locked); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Payment confirmed", map[string]interface{}{
		"payment_id": locked.Id.String(),
		"session_id": locked.SessionId,
	})

	payment.Status = locked.Status
	payment.UpdatedAt = locked.UpdatedAt
	s.notifier.NotifyPaymentConfirmed(ctx, payment)

	return &dto.ConfirmSessionResponse{PaymentId: locked.Id, Status: string(locked.Status), Confirmed: true}, nil
}

func (s *paymentService) RenewSession(ctx context.Context, actor entity.Actor, paymentId uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := s.findAccessible(ctx, s.uowFactory.NewUnitOfWork(ctx), actor, paymentId)
	if err != nil {
		return nil, err
	}
	if payment.Status != entity.PaymentStatusExpired {
		resp := dto.NewPaymentResponse(payment)
		return &resp, nil
	}

	session, err := s.openSession(ctx, payment.Borrowing, payment.MoneyToPay, payment.Type)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	locked, err := uow.PaymentRepository().FindOneForUpdate(ctx, paymentId)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, apperror.NotFound("payment", paymentId)
	}
	if locked.Status != entity.PaymentStatusExpired {
		// Renewed or paid concurrently; keep what is stored.
		resp := dto.NewPaymentResponse(locked)
		return &resp, nil
	}

	now := timeNow()
	locked.SessionId = session.ID
	locked.SessionUrl = session.URL
	locked.ExpiresAt = now.Add(s.cfg.SessionWindow)
	locked.Status = entity.PaymentStatusPending
	locked.UpdatedAt = now
	if err := uow.PaymentRepository().Update(ctx, locked); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	resp := dto.NewPaymentResponse(locked)
	return &resp, nil
}

func (s *paymentService) SweepExpired(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	expired, err := uow.PaymentRepository().ExpirePending(ctx, timeNow())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.Info("PAYMENT", "Expired payment sessions", map[string]interface{}{"count": expired})
	}
	return expired, nil
}

// HandleNotification accepts the processor's webhook. The status is re-read from
// the processor through ConfirmSession instead of trusting the payload.
func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransNotificationRequest) (*dto.ConfirmSessionResponse, error) {
	if !s.processor.VerifySignature(req.OrderId, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		s.logger.Warn("PAYMENT", "Rejected notification with bad signature", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return nil, fmt.Errorf("%w: invalid signature", apperror.ErrForbidden)
	}
	return s.ConfirmSession(ctx, req.OrderId)
}
