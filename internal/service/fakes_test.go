package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"library-service-be/internal/config"
	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/apperror"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/repository/contract"
	"library-service-be/internal/repository/specification"
	"library-service-be/internal/repository/unitofwork"
	"library-service-be/pkg/paymentgateway"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeData holds rows the way the database would: no associations.
type fakeData struct {
	users         []entity.User
	authors       []entity.Author
	subscriptions []entity.Subscription
	books         []entity.Book
	borrowings    []entity.Borrowing
	payments      []entity.Payment
}

func (d fakeData) clone() fakeData {
	c := fakeData{
		users:         append([]entity.User(nil), d.users...),
		authors:       append([]entity.Author(nil), d.authors...),
		subscriptions: append([]entity.Subscription(nil), d.subscriptions...),
		books:         append([]entity.Book(nil), d.books...),
		borrowings:    append([]entity.Borrowing(nil), d.borrowings...),
		payments:      append([]entity.Payment(nil), d.payments...),
	}
	for i := range c.borrowings {
		if r := c.borrowings[i].ActualReturnDate; r != nil {
			v := *r
			c.borrowings[i].ActualReturnDate = &v
		}
	}
	return c
}

// fakeStore serializes transactions with txMu, the way row locks serialize
// the inventory update in Postgres, and restores a snapshot on rollback.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data fakeData
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

type fakeUnitOfWork struct {
	store    *fakeStore
	inTx     bool
	snapshot fakeData
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.store.txMu.Lock()
	u.store.mu.Lock()
	u.snapshot = u.store.data.clone()
	u.store.mu.Unlock()
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("commit without transaction")
	}
	u.inTx = false
	u.store.txMu.Unlock()
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if !u.inTx {
		return nil
	}
	u.store.mu.Lock()
	u.store.data = u.snapshot
	u.store.mu.Unlock()
	u.inTx = false
	u.store.txMu.Unlock()
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return &fakeUserRepo{u.store} }
func (u *fakeUnitOfWork) AuthorRepository() contract.AuthorRepository {
	return &fakeAuthorRepo{u.store}
}
func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{u.store}
}
func (u *fakeUnitOfWork) BookRepository() contract.BookRepository { return &fakeBookRepo{u.store} }
func (u *fakeUnitOfWork) BorrowingRepository() contract.BorrowingRepository {
	return &fakeBorrowingRepo{u.store}
}
func (u *fakeUnitOfWork) PaymentRepository() contract.PaymentRepository {
	return &fakePaymentRepo{u.store}
}

// selectRows keeps the rows matching every specification and applies pagination.
// Ordering is insertion order.
func selectRows[T any](rows []*T, specs []specification.Specification, match func(*T, specification.Specification) bool) []*T {
	var page *specification.Pagination
	var filters []specification.Specification
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.Pagination:
			p := v
			page = &p
		case specification.OrderBy:
		default:
			filters = append(filters, spec)
		}
	}

	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		ok := true
		for _, spec := range filters {
			if !match(row, spec) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}

	if page != nil {
		if page.Offset >= len(out) {
			return []*T{}
		}
		out = out[page.Offset:]
		if page.Limit > 0 && page.Limit < len(out) {
			out = out[:page.Limit]
		}
	}
	return out
}

func unsupported(spec specification.Specification) bool {
	panic(fmt.Sprintf("fake repository: unsupported specification %T", spec))
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- views (rows hydrated with associations) ----

func (s *fakeStore) userRow(id uuid.UUID) *entity.User {
	for i := range s.data.users {
		if s.data.users[i].Id == id {
			return &s.data.users[i]
		}
	}
	return nil
}

func (s *fakeStore) authorRow(id uuid.UUID) *entity.Author {
	for i := range s.data.authors {
		if s.data.authors[i].Id == id {
			return &s.data.authors[i]
		}
	}
	return nil
}

func (s *fakeStore) bookRow(id uuid.UUID) *entity.Book {
	for i := range s.data.books {
		if s.data.books[i].Id == id {
			return &s.data.books[i]
		}
	}
	return nil
}

func (s *fakeStore) borrowingRow(id uuid.UUID) *entity.Borrowing {
	for i := range s.data.borrowings {
		if s.data.borrowings[i].Id == id {
			return &s.data.borrowings[i]
		}
	}
	return nil
}

func (s *fakeStore) paymentRow(id uuid.UUID) *entity.Payment {
	for i := range s.data.payments {
		if s.data.payments[i].Id == id {
			return &s.data.payments[i]
		}
	}
	return nil
}

func (s *fakeStore) booksOf(authorId uuid.UUID) int {
	n := 0
	for _, b := range s.data.books {
		if b.AuthorId == authorId {
			n++
		}
	}
	return n
}

func (s *fakeStore) authorView(a *entity.Author) *entity.Author {
	c := *a
	c.BooksCount = s.booksOf(a.Id)
	return &c
}

func (s *fakeStore) bookView(b *entity.Book) *entity.Book {
	c := *b
	if a := s.authorRow(b.AuthorId); a != nil {
		c.Author = s.authorView(a)
	}
	return &c
}

func (s *fakeStore) borrowingView(b *entity.Borrowing) *entity.Borrowing {
	c := *b
	if b.ActualReturnDate != nil {
		v := *b.ActualReturnDate
		c.ActualReturnDate = &v
	}
	if book := s.bookRow(b.BookId); book != nil {
		c.Book = s.bookView(book)
	}
	if u := s.userRow(b.UserId); u != nil {
		uc := *u
		c.User = &uc
	}
	c.Payments = nil
	for _, p := range s.data.payments {
		if p.BorrowingId == b.Id {
			pc := p
			c.Payments = append(c.Payments, &pc)
		}
	}
	return &c
}

func (s *fakeStore) paymentView(p *entity.Payment) *entity.Payment {
	c := *p
	if b := s.borrowingRow(p.BorrowingId); b != nil {
		bv := s.borrowingView(b)
		bv.Payments = nil
		c.Borrowing = bv
	}
	return &c
}

// ---- users ----

type fakeUserRepo struct{ s *fakeStore }

func matchUser(u *entity.User, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return u.Id == v.ID
	case specification.ByEmail:
		return strings.EqualFold(u.Email, v.Email)
	case specification.StaffWithTelegram:
		return u.IsStaff() && u.TelegramId != nil
	}
	return unsupported(spec)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: user already exists", apperror.ErrConflict)
		}
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	r.s.data.users = append(r.s.data.users, *user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.userRow(user.Id)
	if row == nil {
		return apperror.NotFound("user", user.Id)
	}
	*row = *user
	return nil
}

func (r *fakeUserRepo) find(specs []specification.Specification) []*entity.User {
	rows := make([]*entity.User, 0, len(r.s.data.users))
	for i := range r.s.data.users {
		rows = append(rows, &r.s.data.users[i])
	}
	out := selectRows(rows, specs, matchUser)
	for i, u := range out {
		c := *u
		out[i] = &c
	}
	return out
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if out := r.find(specs); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(specs), nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.find(specs))), nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.userRow(userId)
	if row == nil {
		return apperror.NotFound("user", userId)
	}
	row.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) UpdateTelegramId(ctx context.Context, userId uuid.UUID, telegramId *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.userRow(userId)
	if row == nil {
		return apperror.NotFound("user", userId)
	}
	row.TelegramId = telegramId
	return nil
}

// ---- authors and subscriptions ----

type fakeAuthorRepo struct{ s *fakeStore }

func (r *fakeAuthorRepo) match(a *entity.Author, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return a.Id == v.ID
	case specification.ByFullName:
		return a.FirstName == v.FirstName && a.LastName == v.LastName
	case specification.FirstNameContains:
		return containsFold(a.FirstName, v.Value)
	case specification.LastNameContains:
		return containsFold(a.LastName, v.Value)
	case specification.BooksCount:
		n := r.s.booksOf(a.Id)
		switch v.Op {
		case ">":
			return n > v.Value
		case "<":
			return n < v.Value
		}
		return n == v.Value
	case specification.HasBooks:
		return (r.s.booksOf(a.Id) > 0) == v.Has
	}
	return unsupported(spec)
}

func (r *fakeAuthorRepo) find(specs []specification.Specification) []*entity.Author {
	rows := make([]*entity.Author, 0, len(r.s.data.authors))
	for i := range r.s.data.authors {
		rows = append(rows, &r.s.data.authors[i])
	}
	out := selectRows(rows, specs, r.match)
	for i, a := range out {
		out[i] = r.s.authorView(a)
	}
	return out
}

func (r *fakeAuthorRepo) Create(ctx context.Context, author *entity.Author) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.authors {
		if a.FirstName == author.FirstName && a.LastName == author.LastName {
			return fmt.Errorf("%w: author already exists", apperror.ErrConflict)
		}
	}
	if author.Id == uuid.Nil {
		author.Id = uuid.New()
	}
	r.s.data.authors = append(r.s.data.authors, *author)
	return nil
}

func (r *fakeAuthorRepo) Update(ctx context.Context, author *entity.Author) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.authorRow(author.Id)
	if row == nil {
		return apperror.NotFound("author", author.Id)
	}
	*row = *author
	return nil
}

func (r *fakeAuthorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	authors := r.s.data.authors[:0]
	for _, a := range r.s.data.authors {
		if a.Id != id {
			authors = append(authors, a)
		}
	}
	r.s.data.authors = authors
	books := r.s.data.books[:0]
	for _, b := range r.s.data.books {
		if b.AuthorId != id {
			books = append(books, b)
		}
	}
	r.s.data.books = books
	return nil
}

func (r *fakeAuthorRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if out := r.find(specs); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *fakeAuthorRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(specs), nil
}

func (r *fakeAuthorRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.find(specs))), nil
}

type fakeSubscriptionRepo struct{ s *fakeStore }

func matchSubscription(sub *entity.Subscription, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return sub.Id == v.ID
	case specification.UserOwnedBy:
		return sub.UserId == v.UserID
	case specification.ByAuthorID:
		return sub.AuthorId == v.AuthorID
	}
	return unsupported(spec)
}

func (r *fakeSubscriptionRepo) find(specs []specification.Specification) []*entity.Subscription {
	rows := make([]*entity.Subscription, 0, len(r.s.data.subscriptions))
	for i := range r.s.data.subscriptions {
		rows = append(rows, &r.s.data.subscriptions[i])
	}
	out := selectRows(rows, specs, matchSubscription)
	for i, sub := range out {
		c := *sub
		if a := r.s.authorRow(sub.AuthorId); a != nil {
			c.Author = r.s.authorView(a)
		}
		out[i] = &c
	}
	return out
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.data.subscriptions {
		if sub.UserId == subscription.UserId && sub.AuthorId == subscription.AuthorId {
			return fmt.Errorf("%w: already subscribed", apperror.ErrConflict)
		}
	}
	if subscription.Id == uuid.Nil {
		subscription.Id = uuid.New()
	}
	row := *subscription
	row.Author = nil
	r.s.data.subscriptions = append(r.s.data.subscriptions, row)
	return nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	subs := r.s.data.subscriptions[:0]
	for _, sub := range r.s.data.subscriptions {
		if sub.Id != id {
			subs = append(subs, sub)
		}
	}
	r.s.data.subscriptions = subs
	return nil
}

func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if out := r.find(specs); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(specs), nil
}

// ---- books ----

type fakeBookRepo struct{ s *fakeStore }

func (r *fakeBookRepo) match(b *entity.Book, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return b.Id == v.ID
	case specification.ByAuthorID:
		return b.AuthorId == v.AuthorID
	case specification.TitleContains:
		return containsFold(b.Title, v.Value)
	case specification.ByCover:
		return string(b.Cover) == v.Cover
	case specification.Availability:
		return b.IsAvailable() == v.Available
	case specification.AuthorFirstNameContains:
		a := r.s.authorRow(b.AuthorId)
		return a != nil && containsFold(a.FirstName, v.Value)
	case specification.AuthorLastNameContains:
		a := r.s.authorRow(b.AuthorId)
		return a != nil && containsFold(a.LastName, v.Value)
	}
	return unsupported(spec)
}

func (r *fakeBookRepo) find(specs []specification.Specification) []*entity.Book {
	rows := make([]*entity.Book, 0, len(r.s.data.books))
	for i := range r.s.data.books {
		rows = append(rows, &r.s.data.books[i])
	}
	out := selectRows(rows, specs, r.match)
	for i, b := range out {
		out[i] = r.s.bookView(b)
	}
	return out
}

func (r *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.books {
		if b.Title == book.Title && b.AuthorId == book.AuthorId && b.Cover == book.Cover {
			return fmt.Errorf("%w: book already exists", apperror.ErrConflict)
		}
	}
	if book.Id == uuid.Nil {
		book.Id = uuid.New()
	}
	row := *book
	row.Author = nil
	r.s.data.books = append(r.s.data.books, row)
	return nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *entity.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.bookRow(book.Id)
	if row == nil {
		return apperror.NotFound("book", book.Id)
	}
	if book.Inventory < 0 {
		return fmt.Errorf("%w: inventory below zero", apperror.ErrOutOfStock)
	}
	*row = *book
	row.Author = nil
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	books := r.s.data.books[:0]
	for _, b := range r.s.data.books {
		if b.Id != id {
			books = append(books, b)
		}
	}
	r.s.data.books = books
	return nil
}

func (r *fakeBookRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if out := r.find(specs); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *fakeBookRepo) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	return r.FindOne(ctx, specification.ByID{ID: id})
}

func (r *fakeBookRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(specs), nil
}

func (r *fakeBookRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.find(specs))), nil
}

func (r *fakeBookRepo) AdjustInventory(ctx context.Context, id uuid.UUID, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.bookRow(id)
	if row == nil {
		return apperror.NotFound("book", id)
	}
	if row.Inventory+delta < 0 {
		return fmt.Errorf("%w: no copies left", apperror.ErrOutOfStock)
	}
	row.Inventory += delta
	return nil
}

// ---- borrowings ----

type fakeBorrowingRepo struct{ s *fakeStore }

func matchBorrowing(b *entity.Borrowing, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return b.Id == v.ID
	case specification.UserOwnedBy:
		return b.UserId == v.UserID
	case specification.ByUserIDs:
		for _, id := range v.UserIDs {
			if b.UserId == id {
				return true
			}
		}
		return false
	case specification.BorrowingActive:
		return b.IsActive() == v.Active
	case specification.OverdueOn:
		return b.IsActive() && b.ExpectedReturnDate.Before(entity.DateOf(v.Date))
	}
	return unsupported(spec)
}

func (r *fakeBorrowingRepo) find(specs []specification.Specification) []*entity.Borrowing {
	rows := make([]*entity.Borrowing, 0, len(r.s.data.borrowings))
	for i := range r.s.data.borrowings {
		rows = append(rows, &r.s.data.borrowings[i])
	}
	out := selectRows(rows, specs, matchBorrowing)
	for i, b := range out {
		out[i] = r.s.borrowingView(b)
	}
	return out
}

func borrowingRow(b *entity.Borrowing) entity.Borrowing {
	row := *b
	row.Book = nil
	row.User = nil
	row.Payments = nil
	if b.ActualReturnDate != nil {
		v := *b.ActualReturnDate
		row.ActualReturnDate = &v
	}
	return row
}

func (r *fakeBorrowingRepo) Create(ctx context.Context, borrowing *entity.Borrowing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if borrowing.Id == uuid.Nil {
		borrowing.Id = uuid.New()
	}
	if borrowing.CreatedAt.IsZero() {
		borrowing.CreatedAt = time.Now()
	}
	r.s.data.borrowings = append(r.s.data.borrowings, borrowingRow(borrowing))
	return nil
}

func (r *fakeBorrowingRepo) Update(ctx context.Context, borrowing *entity.Borrowing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.borrowingRow(borrowing.Id)
	if row == nil {
		return apperror.NotFound("borrowing", borrowing.Id)
	}
	*row = borrowingRow(borrowing)
	return nil
}

func (r *fakeBorrowingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Borrowing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if out := r.find(specs); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

// FindOneForUpdate mirrors the SQL implementation: the row only, no associations.
func (r *fakeBorrowingRepo) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Borrowing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.borrowingRow(id)
	if row == nil {
		return nil, nil
	}
	c := borrowingRow(row)
	return &c, nil
}

func (r *fakeBorrowingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Borrowing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(specs), nil
}

func (r *fakeBorrowingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.find(specs))), nil
}

// ---- payments ----

type fakePaymentRepo struct{ s *fakeStore }

func (r *fakePaymentRepo) match(p *entity.Payment, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return p.Id == v.ID
	case specification.BySessionID:
		return p.SessionId == v.SessionID
	case specification.PaymentOwnedBy:
		b := r.s.borrowingRow(p.BorrowingId)
		return b != nil && b.UserId == v.UserID
	}
	return unsupported(spec)
}

func (r *fakePaymentRepo) find(specs []specification.Specification) []*entity.Payment {
	rows := make([]*entity.Payment, 0, len(r.s.data.payments))
	for i := range r.s.data.payments {
		rows = append(rows, &r.s.data.payments[i])
	}
	out := selectRows(rows, specs, r.match)
	for i, p := range out {
		out[i] = r.s.paymentView(p)
	}
	return out
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.payments {
		if p.SessionId == payment.SessionId {
			return fmt.Errorf("%w: duplicate session id", apperror.ErrConflict)
		}
	}
	if r.s.borrowingRow(payment.BorrowingId) == nil {
		return fmt.Errorf("payment references unknown borrowing %s", payment.BorrowingId)
	}
	row := *payment
	row.Borrowing = nil
	r.s.data.payments = append(r.s.data.payments, row)
	return nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := r.s.paymentRow(payment.Id)
	if row == nil {
		return apperror.NotFound("payment", payment.Id)
	}
	*row = *payment
	row.Borrowing = nil
	return nil
}

func (r *fakePaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if out := r.find(specs); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.FindOne(ctx, specification.ByID{ID: id})
}

func (r *fakePaymentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(specs), nil
}

func (r *fakePaymentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.find(specs))), nil
}

func (r *fakePaymentRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.data.payments {
		p := &r.s.data.payments[i]
		if p.IsExpired(now) {
			p.Status = entity.PaymentStatusExpired
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// ---- seeding helpers ----

func (s *fakeStore) addUser(email string, staff bool, telegramId *int64) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := entity.UserRoleUser
	if staff {
		role = entity.UserRoleStaff
	}
	u := entity.User{Id: uuid.New(), Email: email, Role: role, TelegramId: telegramId}
	s.data.users = append(s.data.users, u)
	return &u
}

func (s *fakeStore) addAuthor(first, last string) *entity.Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := entity.Author{Id: uuid.New(), FirstName: first, LastName: last}
	s.data.authors = append(s.data.authors, a)
	return &a
}

func (s *fakeStore) addBook(authorId uuid.UUID, title string, inventory int, dailyFee string) *entity.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := entity.Book{
		Id:        uuid.New(),
		Title:     title,
		AuthorId:  authorId,
		Cover:     entity.BookCoverHard,
		Inventory: inventory,
		DailyFee:  mustDecimal(dailyFee),
	}
	s.data.books = append(s.data.books, b)
	return &b
}

func (s *fakeStore) addBorrowing(b entity.Borrowing) *entity.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Id == uuid.Nil {
		b.Id = uuid.New()
	}
	s.data.borrowings = append(s.data.borrowings, borrowingRow(&b))
	return &b
}

func (s *fakeStore) addPayment(p entity.Payment) *entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	s.data.payments = append(s.data.payments, p)
	return &p
}

func (s *fakeStore) book(id uuid.UUID) entity.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookRow(id)
}

func (s *fakeStore) payment(id uuid.UUID) entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.paymentRow(id)
}

func (s *fakeStore) allBorrowings() []entity.Borrowing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Borrowing(nil), s.data.borrowings...)
}

func (s *fakeStore) allPayments() []entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Payment(nil), s.data.payments...)
}

// ---- payment processor ----

type fakeProcessor struct {
	mu        sync.Mutex
	createErr error
	statuses  map[string]paymentgateway.SessionStatus
	requests  []paymentgateway.SessionRequest
	// wholeUnits charges like Midtrans: whole currency units, rounded up.
	wholeUnits bool
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{statuses: make(map[string]paymentgateway.SessionStatus)}
}

func (p *fakeProcessor) CreateSession(ctx context.Context, req paymentgateway.SessionRequest) (*paymentgateway.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.requests = append(p.requests, req)
	id := "sess_" + req.OrderID
	p.statuses[id] = paymentgateway.SessionPending
	amount := req.UnitAmount
	if p.wholeUnits {
		amount = paymentgateway.GrossAmount(req) * 100
	}
	return &paymentgateway.Session{ID: id, URL: "https://pay.example.com/checkout/" + id, Amount: amount}, nil
}

func (p *fakeProcessor) SessionStatus(ctx context.Context, sessionID string) (paymentgateway.SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.statuses[sessionID]
	if !ok {
		return "", fmt.Errorf("unknown session %s", sessionID)
	}
	return status, nil
}

func (p *fakeProcessor) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return signature == "valid-signature"
}

func (p *fakeProcessor) setStatus(sessionID string, status paymentgateway.SessionStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses[sessionID] = status
}

func (p *fakeProcessor) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createErr = err
}

func (p *fakeProcessor) sessionRequests() []paymentgateway.SessionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]paymentgateway.SessionRequest(nil), p.requests...)
}

// ---- notifier ----

type notifierCall struct {
	Kind      string
	Borrowing *entity.Borrowing
	Payment   *entity.Payment
	User      *entity.User
	Author    *entity.Author
	Flag      bool
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (n *fakeNotifier) record(c notifierCall) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, c)
}

func (n *fakeNotifier) NotifySignUp(ctx context.Context, user *entity.User) {
	n.record(notifierCall{Kind: "sign-up", User: user})
}

func (n *fakeNotifier) NotifyBorrowingCreated(ctx context.Context, borrowing *entity.Borrowing) {
	n.record(notifierCall{Kind: "borrowing-created", Borrowing: borrowing})
}

func (n *fakeNotifier) NotifyOverdue(ctx context.Context, borrowing *entity.Borrowing, today time.Time) {
	n.record(notifierCall{Kind: "overdue", Borrowing: borrowing})
}

func (n *fakeNotifier) NotifyNoOverdue(ctx context.Context, today time.Time) {
	n.record(notifierCall{Kind: "no-overdue"})
}

func (n *fakeNotifier) NotifyPaymentConfirmed(ctx context.Context, payment *entity.Payment) {
	n.record(notifierCall{Kind: "payment-confirmed", Payment: payment})
}

func (n *fakeNotifier) NotifySubscriptionChange(ctx context.Context, user *entity.User, author *entity.Author, subscribed bool, since time.Time) {
	n.record(notifierCall{Kind: "subscription", User: user, Author: author, Flag: subscribed})
}

func (n *fakeNotifier) Wait() {}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.calls))
	for _, c := range n.calls {
		out = append(out, c.Kind)
	}
	return out
}

func (n *fakeNotifier) byKind(kind string) []notifierCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifierCall
	for _, c := range n.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// ---- test helpers ----

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustDate(s string) time.Time {
	d, err := entity.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// freezeTime pins the service clock to 09:00 UTC on date.
func freezeTime(t *testing.T, date string) {
	t.Helper()
	fixed := mustDate(date).Add(9 * time.Hour)
	previous := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = previous })
}

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		Provider:       "stub",
		SessionWindow:  24 * time.Hour,
		RequestTimeout: time.Second,
	}
}

type fixture struct {
	store      *fakeStore
	processor  *fakeProcessor
	notifier   *fakeNotifier
	payments   IPaymentService
	borrowings IBorrowingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     newFakeStore(),
		processor: newFakeProcessor(),
		notifier:  &fakeNotifier{},
	}
	log := logger.NewNopLogger()
	f.payments = NewPaymentService(f.store, f.processor, f.notifier, testPaymentConfig(), "http://library.test", log)
	f.borrowings = NewBorrowingService(f.store, f.payments, f.notifier, 2, log)
	return f
}
