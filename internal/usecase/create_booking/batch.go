package create_booking

import (
	"context"
	"fmt"
)

// ExecuteBatch выполняет пачку запросов на бронирование последовательно
//
// Каждый запрос фиксируется в собственной сериализуемой транзакции; отказ
// одного слота не прерывает обработку остальных. Результаты возвращаются
// в порядке запросов, позиция к позиции.
func (uc *UseCase) ExecuteBatch(ctx context.Context, reqs []*Request) ([]BatchResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}

	uc.logger.Info("CreateBookingBatch: %d requests", len(reqs))

	results := make([]BatchResult, len(reqs))
	succeeded := 0

	for i, req := range reqs {
		if req == nil {
			results[i] = BatchResult{Err: fmt.Errorf("%w: request %d is empty", ErrInvalidInput, i)}
			continue
		}

		booking, err := uc.Execute(ctx, req)
		if err != nil {
			uc.logger.Warn("CreateBookingBatch: request %d failed: %v", i, err)
			results[i] = BatchResult{Err: err}
			continue
		}

		results[i] = BatchResult{Booking: booking}
		succeeded++
	}

	uc.logger.Info("CreateBookingBatch: %d/%d succeeded", succeeded, len(reqs))

	return results, nil
}
