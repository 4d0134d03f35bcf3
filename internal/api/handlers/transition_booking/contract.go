package transition_booking

import (
	"context"

	transitionBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/transition_booking"
)

type TransitionUseCase interface {
	Accept(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)
	Reject(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)
	Cancel(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)
	Complete(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
