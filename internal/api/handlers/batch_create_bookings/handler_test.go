package batch_create_bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createBooking "github.com/pawfield/PF-BookingService/internal/usecase/create_booking"
)

type fakeUseCase struct {
	gotReqs []*createBooking.Request
	results []createBooking.BatchResult
	err     error
}

func (f *fakeUseCase) ExecuteBatch(_ context.Context, reqs []*createBooking.Request) ([]createBooking.BatchResult, error) {
	f.gotReqs = reqs
	return f.results, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(uc CreateBookingUseCase, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func bookingJSON(startTime string) string {
	return fmt.Sprintf(`{
		"clientId": 7,
		"serviceId": 1,
		"date": "2025-06-02",
		"startTime": %q,
		"endTime": "10:00",
		"petIds": [1]
	}`, startTime)
}

func TestHandleMixedOutcomes(t *testing.T) {
	uc := &fakeUseCase{
		results: []createBooking.BatchResult{
			{Booking: &createBooking.Response{ID: 1, Reference: "ref-1", Status: "committed"}},
			{Err: createBooking.ErrInsufficientCapacity},
			{Err: createBooking.ErrInvalidInput}, // позиция с ошибкой парсинга
		},
	}

	body := fmt.Sprintf(`{"bookings": [%s, %s, %s]}`,
		bookingJSON("09:00"), bookingJSON("09:00"), bookingJSON("9am"))

	rec := doRequest(uc, body)

	// Частичные отказы не меняют HTTP статус
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchCreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	assert.True(t, resp.Results[0].Success)
	require.NotNil(t, resp.Results[0].Booking)
	assert.Equal(t, "ref-1", resp.Results[0].Booking.Reference)

	assert.False(t, resp.Results[1].Success)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, http.StatusConflict, resp.Results[1].Error.Code)

	// Непарсящаяся позиция получает outcome 400, не блокируя остальные
	assert.False(t, resp.Results[2].Success)
	require.NotNil(t, resp.Results[2].Error)
	assert.Equal(t, http.StatusBadRequest, resp.Results[2].Error.Code)

	// Позиции переданы use case позиция к позиции; непарсящаяся - nil
	require.Len(t, uc.gotReqs, 3)
	assert.NotNil(t, uc.gotReqs[0])
	assert.NotNil(t, uc.gotReqs[1])
	assert.Nil(t, uc.gotReqs[2])
}

func TestHandleEmptyBatch(t *testing.T) {
	uc := &fakeUseCase{}
	rec := doRequest(uc, `{"bookings": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.gotReqs)
}

func TestHandleBatchTooLarge(t *testing.T) {
	entries := make([]string, maxBatchSize+1)
	for i := range entries {
		entries[i] = bookingJSON("09:00")
	}
	body := fmt.Sprintf(`{"bookings": [%s]}`, strings.Join(entries, ","))

	uc := &fakeUseCase{}
	rec := doRequest(uc, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.gotReqs)
}

func TestHandleMalformedBody(t *testing.T) {
	uc := &fakeUseCase{}
	rec := doRequest(uc, "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
