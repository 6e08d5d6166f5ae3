package resolve_availability

import (
	"context"

	"github.com/pawfield/PF-BookingService/internal/domain"
	"github.com/pawfield/PF-BookingService/internal/integrations/clientservice"
)

// RulesRepository интерфейс read-only хранилища правил и справочных данных
type RulesRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListActiveRulesByService(ctx context.Context, serviceID int64) ([]*domain.ServiceAvailabilityRule, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	ListStaffRules(ctx context.Context) ([]*domain.StaffAvailabilityRule, error)
	ListFieldsByIDs(ctx context.Context, ids []int64) ([]*domain.Field, error)
	ListVehiclesByIDs(ctx context.Context, ids []int64) ([]*domain.Vehicle, error)
}

// BookingRepository интерфейс журнала бронирований (read path)
type BookingRepository interface {
	ListOverlapping(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*clientservice.ClientProfile, error)
}

// Metrics интерфейс для бизнес-метрик движка
type Metrics interface {
	IncPriceMismatch(serviceID string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
