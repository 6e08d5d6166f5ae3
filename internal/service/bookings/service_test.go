package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfield/PF-BookingService/internal/domain"
	bookingRepo "github.com/pawfield/PF-BookingService/internal/infra/storage/booking"
	"github.com/pawfield/PF-BookingService/internal/service/bookings/models"
	"github.com/pawfield/PF-BookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	failWith error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) ListByClient(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.ClientID != clientID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking(id, clientID int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		Reference:   "ref-1",
		ClientID:    clientID,
		ServiceID:   1,
		FieldIDs:    []int64{10},
		StartAt:     time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		PetIDs:      []int64{1, 2},
		Status:      status,
		PricePerPet: 25.0,
	}
}

func TestGetByID(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, 7, domain.StatusCommitted),
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "ref-1", resp.Reference)
	assert.Equal(t, string(domain.StatusCommitted), resp.Status)
	assert.Equal(t, []int64{1, 2}, resp.PetIDs)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	svc := NewService(repo, nopLogger{})

	_, err := svc.GetByID(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByIDAccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, 7, domain.StatusCommitted),
	}}
	svc := NewService(repo, nopLogger{})

	// Чужое бронирование недоступно
	_, err := svc.GetByID(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByIDRepositoryError(t *testing.T) {
	repo := &fakeBookingRepo{failWith: errors.New("connection reset")}
	svc := NewService(repo, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetClientBookings(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, 7, domain.StatusCommitted),
		2: testBooking(2, 7, domain.StatusCancelled),
		3: testBooking(3, 8, domain.StatusCommitted),
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestGetClientBookingsStatusFilter(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: testBooking(1, 7, domain.StatusCommitted),
		2: testBooking(2, 7, domain.StatusCancelled),
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 7,
		Status:   ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "cancelled", resp.Bookings[0].Status)
}

func TestGetClientBookingsInvalidStatus(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	svc := NewService(repo, nopLogger{})

	_, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 7,
		Status:   ptr.Ptr("pending"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetClientBookingsEmptyList(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: 7})
	require.NoError(t, err)
	require.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}
