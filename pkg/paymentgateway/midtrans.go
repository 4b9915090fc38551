package paymentgateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

type MidtransConfig struct {
	ServerKey    string
	IsProduction bool
}

// MidtransProcessor opens Snap checkout sessions and looks them up through the Core API.
type MidtransProcessor struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtransProcessor(cfg MidtransConfig) *MidtransProcessor {
	env := midtrans.Sandbox
	if cfg.IsProduction {
		env = midtrans.Production
	}

	p := &MidtransProcessor{serverKey: cfg.ServerKey}
	p.snap.New(cfg.ServerKey, env)
	p.core.New(cfg.ServerKey, env)
	return p
}

func quantity(req SessionRequest) int64 {
	if req.Quantity <= 0 {
		return 1
	}
	return req.Quantity
}

// unitPrice is the Midtrans item price: whole currency units, rounded up.
func unitPrice(req SessionRequest) int64 {
	return (req.UnitAmount + 99) / 100
}

// GrossAmount is the transaction total Midtrans expects for req.
func GrossAmount(req SessionRequest) int64 {
	return unitPrice(req) * quantity(req)
}

func (p *MidtransProcessor) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: GrossAmount(req),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.OrderID,
				Price: unitPrice(req),
				Qty:   int32(quantity(req)),
				Name:  truncate(req.ItemName, 50),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}
	if req.ExpiresIn > 0 {
		snapReq.Expiry = expiryOf(req.ExpiresIn)
	}

	type result struct {
		resp *snap.Response
		err  *midtrans.Error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := p.snap.CreateTransaction(snapReq)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("midtrans error: %v", r.err.GetMessage())
		}
		return &Session{ID: req.OrderID, URL: r.resp.RedirectURL, Amount: GrossAmount(req) * 100}, nil
	}
}

func (p *MidtransProcessor) SessionStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	type result struct {
		resp *coreapi.TransactionStatusResponse
		err  *midtrans.Error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := p.core.CheckTransaction(sessionID)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			// Midtrans answers 404 until the customer picks a payment method.
			if r.err.StatusCode == http.StatusNotFound {
				return SessionPending, nil
			}
			return "", fmt.Errorf("midtrans error: %v", r.err.GetMessage())
		}
		return StatusOf(r.resp.TransactionStatus, r.resp.FraudStatus), nil
	}
}

// StatusOf maps a Midtrans transaction_status onto a SessionStatus.
func StatusOf(transactionStatus, fraudStatus string) SessionStatus {
	switch transactionStatus {
	case "settlement":
		return SessionPaid
	case "capture":
		if fraudStatus == "challenge" {
			return SessionPending
		}
		return SessionPaid
	case "deny", "cancel", "expire", "failure":
		return SessionFailed
	default:
		return SessionPending
	}
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + server_key).
func (p *MidtransProcessor) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	if p.serverKey == "" {
		return false
	}
	expected := Signature(orderID, statusCode, grossAmount, p.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderID+statusCode+grossAmount+serverKey)))
}

func expiryOf(d time.Duration) *snap.ExpiryDetails {
	if d%time.Hour == 0 {
		return &snap.ExpiryDetails{Unit: "hour", Duration: int64(d / time.Hour)}
	}
	minutes := int64(d / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return &snap.ExpiryDetails{Unit: "minute", Duration: minutes}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
