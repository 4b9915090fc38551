package scheduler

import (
	"context"

	"library-service-be/internal/service"
)

const (
	JobOverdueCheck = "overdue-check"
	JobExpirySweep  = "payment-expiry-sweep"
)

func OverdueCheckJob(spec string, borrowings service.IBorrowingService) Job {
	return Job{
		Name: JobOverdueCheck,
		Spec: spec,
		Run: func(ctx context.Context) error {
			_, err := borrowings.CheckOverdue(ctx)
			return err
		},
	}
}

func ExpirySweepJob(spec string, payments service.IPaymentService) Job {
	return Job{
		Name: JobExpirySweep,
		Spec: spec,
		Run: func(ctx context.Context) error {
			_, err := payments.SweepExpired(ctx)
			return err
		},
	}
}
