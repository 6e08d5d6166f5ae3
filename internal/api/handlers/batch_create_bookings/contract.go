package batch_create_bookings

import (
	"context"

	createBooking "github.com/pawfield/PF-BookingService/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	ExecuteBatch(ctx context.Context, reqs []*createBooking.Request) ([]createBooking.BatchResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
