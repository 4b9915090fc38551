package paymentgateway

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		status string
		fraud  string
		want   SessionStatus
	}{
		{"settlement", "", SessionPaid},
		{"capture", "accept", SessionPaid},
		{"capture", "challenge", SessionPending},
		{"pending", "", SessionPending},
		{"expire", "", SessionFailed},
		{"cancel", "", SessionFailed},
		{"deny", "", SessionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.status, tt.fraud))
		})
	}
}

func TestMidtransVerifySignature(t *testing.T) {
	p := NewMidtransProcessor(MidtransConfig{ServerKey: "server-key"})
	sig := Signature("order-1", "200", "10500.00", "server-key")

	assert.True(t, p.VerifySignature("order-1", "200", "10500.00", sig))
	assert.False(t, p.VerifySignature("order-1", "200", "10.00", sig))
	assert.False(t, p.VerifySignature("order-2", "200", "10500.00", sig))
}

func TestMidtransVerifySignatureWithoutKey(t *testing.T) {
	p := NewMidtransProcessor(MidtransConfig{})
	assert.False(t, p.VerifySignature("order-1", "200", "1", Signature("order-1", "200", "1", "")))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1050), MinorUnits(decimal.RequireFromString("10.50")))
	assert.Equal(t, int64(600), MinorUnits(decimal.RequireFromString("6")))
	assert.Equal(t, int64(1), MinorUnits(decimal.RequireFromString("0.001")))
}

func TestGrossAmountRoundsUp(t *testing.T) {
	assert.Equal(t, int64(11), GrossAmount(SessionRequest{UnitAmount: 1050, Quantity: 1}))
	assert.Equal(t, int64(6), GrossAmount(SessionRequest{UnitAmount: 600}))
	assert.Equal(t, int64(12), GrossAmount(SessionRequest{UnitAmount: 600, Quantity: 2}))
}

func TestExpiryOf(t *testing.T) {
	assert.Equal(t, "hour", expiryOf(24*time.Hour).Unit)
	assert.Equal(t, int64(24), expiryOf(24*time.Hour).Duration)
	assert.Equal(t, "minute", expiryOf(90*time.Minute).Unit)
	assert.Equal(t, int64(90), expiryOf(90*time.Minute).Duration)
}

func TestStubProcessor(t *testing.T) {
	ctx := context.Background()
	p := NewStubProcessor()

	session, err := p.CreateSession(ctx, SessionRequest{OrderID: "abc", UnitAmount: 1050, SuccessURL: "http://localhost/api/v1/payments/success"})
	require.NoError(t, err)
	assert.Equal(t, "stub_abc", session.ID)
	assert.Equal(t, int64(1050), session.Amount)
	assert.Equal(t, "http://localhost/api/v1/payments/success?session_id=stub_abc", session.URL)

	status, err := p.SessionStatus(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionPending, status)

	p.MarkPaid(session.ID)
	status, err = p.SessionStatus(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionPaid, status)

	_, err = p.SessionStatus(ctx, "cs_live_other")
	assert.Error(t, err)
}
