package service

import (
	"context"
	"fmt"

	"library-service-be/internal/dto"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBorrowingService interface {
	List(ctx context.Context, actor entity.Actor, filter dto.BorrowingFilter) (*dto.PageResponse[dto.BorrowingResponse], error)
	Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BorrowingResponse, error)
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateBorrowingRequest) (*dto.BorrowingCheckoutResponse, error)
	Return(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BorrowingCheckoutResponse, error)
	// CheckOverdue notifies about every active borrowing past its expected
	// return date and returns how many were found. Nothing is modified.
	CheckOverdue(ctx context.Context) (int, error)
}

type borrowingService struct {
	uowFactory     unitofwork.RepositoryFactory
	payments       IPaymentService
	notifier       INotifier
	fineMultiplier int
	logger         logger.ILogger
}

func NewBorrowingService(
	uowFactory unitofwork.RepositoryFactory,
	payments IPaymentService,
	notifier INotifier,
	fineMultiplier int,
	log logger.ILogger,
) IBorrowingService {
	return &borrowingService{
		uowFactory:     uowFactory,
		payments:       payments,
		notifier:       notifier,
		fineMultiplier: fineMultiplier,
		logger:         log,
	}
}

func (s *borrowingService) List(ctx context.Context, actor entity.Actor, filter dto.BorrowingFilter) (*dto.PageResponse[dto.BorrowingResponse], error) {
	page := filter.PageQuery.Normalize()

	var specs []specification.Specification
	if !actor.IsStaff {
		specs = append(specs, specification.UserOwnedBy{UserID: actor.UserId})
	} else if len(filter.UserIds) > 0 {
		specs = append(specs, specification.ByUserIDs{UserIDs: filter.UserIds})
	}
	if filter.IsActive != nil {
		specs = append(specs, specification.BorrowingActive{Active: *filter.IsActive})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.BorrowingRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "borrowings.expected_return_date"},
		specification.Page(page.Page, page.PageSize),
	)
	borrowings, err := uow.BorrowingRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BorrowingResponse, 0, len(borrowings))
	for _, b := range borrowings {
		results = append(results, dto.NewBorrowingResponse(b))
	}
	return &dto.PageResponse[dto.BorrowingResponse]{
		Count:    count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  results,
	}, nil
}

func (s *borrowingService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BorrowingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	borrowing, err := uow.BorrowingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if borrowing == nil {
		return nil, apperror.NotFound("borrowing", id)
	}
	if !actor.CanAccess(borrowing.UserId) {
		return nil, fmt.Errorf("%w: borrowing belongs to another user", apperror.ErrForbidden)
	}
	resp := dto.NewBorrowingResponse(borrowing)
	return &resp, nil
}

// reload reads the committed borrowing with its book, borrower and payments.
func (s *borrowingService) reload(ctx context.Context, id uuid.UUID) (*entity.Borrowing, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	borrowing, err := uow.BorrowingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if borrowing == nil {
		return nil, apperror.NotFound("borrowing", id)
	}
	return borrowing, nil
}

func (s *borrowingService) Create(ctx context.Context, actor entity.Actor, req *dto.CreateBorrowingRequest) (*dto.BorrowingCheckoutResponse, error) {
	expected, err := entity.ParseDate(req.ExpectedReturnDate)
	if err != nil {
		return nil, apperror.Validation("expected_return_date must be a date (YYYY-MM-DD)")
	}
	today := currentDate()

	borrowing := &entity.Borrowing{
		Id:                 uuid.New(),
		BorrowDate:         today,
		ExpectedReturnDate: expected,
		BookId:             req.BookId,
		UserId:             actor.UserId,
	}
	if err := borrowing.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	book, err := uow.BookRepository().FindOneForUpdate(ctx, req.BookId)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound("book", req.BookId)
	}
	if !book.IsAvailable() {
		return nil, fmt.Errorf("%w: '%s' has no copies left", apperror.ErrOutOfStock, book.Title)
	}
	borrowing.Book = book

	if err := uow.BorrowingRepository().Create(ctx, borrowing); err != nil {
		return nil, err
	}
	if err := uow.BookRepository().AdjustInventory(ctx, book.Id, -1); err != nil {
		return nil, err
	}

	payment, err := s.payments.CreateSession(ctx, uow, borrowing, borrowing.RentalFee(book.DailyFee), entity.PaymentTypePayment)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("BORROWING", "Borrowing created", map[string]interface{}{
		"borrowing_id": borrowing.Id.String(),
		"book_id":      book.Id.String(),
		"user_id":      actor.UserId.String(),
	})

	saved, err := s.reload(ctx, borrowing.Id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyBorrowingCreated(ctx, saved)

	return &dto.BorrowingCheckoutResponse{
		Borrowing:  dto.NewBorrowingResponse(saved),
		SessionUrl: payment.SessionUrl,
	}, nil
}

func (s *borrowingService) Return(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BorrowingCheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	borrowing, err := uow.BorrowingRepository().FindOneForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if borrowing == nil {
		return nil, apperror.NotFound("borrowing", id)
	}
	if !actor.CanAccess(borrowing.UserId) {
		return nil, fmt.Errorf("%w: borrowing belongs to another user", apperror.ErrForbidden)
	}
	if !borrowing.IsActive() {
		return nil, fmt.Errorf("%w: borrowing was returned on %s",
			apperror.ErrAlreadyReturned, borrowing.ActualReturnDate.Format(entity.DateLayout))
	}

	today := currentDate()
	borrowing.ActualReturnDate = &today
	if err := borrowing.Validate(); err != nil {
		return nil, err
	}

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: borrowing.BookId})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound("book", borrowing.BookId)
	}
	borrowing.Book = book

	if err := uow.BorrowingRepository().Update(ctx, borrowing); err != nil {
		return nil, err
	}
	if err := uow.BookRepository().AdjustInventory(ctx, book.Id, 1); err != nil {
		return nil, err
	}

	var sessionUrl string
	fine := borrowing.Fine(book.DailyFee, today, s.fineMultiplier)
	if fine.IsPositive() {
		payment, err := s.payments.CreateSession(ctx, uow, borrowing, fine, entity.PaymentTypeFee)
		if err != nil {
			return nil, err
		}
		sessionUrl = payment.SessionUrl
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("BORROWING", "Borrowing returned", map[string]interface{}{
		"borrowing_id": borrowing.Id.String(),
		"overdue_days": borrowing.OverdueDays(today),
		"fine":         fine.StringFixed(2),
	})

	saved, err := s.reload(ctx, borrowing.Id)
	if err != nil {
		return nil, err
	}
	return &dto.BorrowingCheckoutResponse{
		Borrowing:  dto.NewBorrowingResponse(saved),
		SessionUrl: sessionUrl,
	}, nil
}

func (s *borrowingService) CheckOverdue(ctx context.Context) (int, error) {
	today := currentDate()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	overdue, err := uow.BorrowingRepository().FindAll(ctx,
		specification.OverdueOn{Date: today},
		specification.OrderBy{Field: "borrowings.expected_return_date"},
	)
	if err != nil {
		return 0, err
	}

	if len(overdue) == 0 {
		s.logger.Info("BORROWING", "No borrowings overdue today", map[string]interface{}{
			"date": today.Format(entity.DateLayout),
		})
		s.notifier.NotifyNoOverdue(ctx, today)
		return 0, nil
	}

	for _, borrowing := range overdue {
		s.notifier.NotifyOverdue(ctx, borrowing, today)
	}
	s.logger.Info("BORROWING", "Overdue borrowings reported", map[string]interface{}{
		"date":  today.Format(entity.DateLayout),
		"count": len(overdue),
	})
	return len(overdue), nil
}
