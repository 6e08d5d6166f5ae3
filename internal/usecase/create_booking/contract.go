package create_booking

import (
	"context"

	"github.com/pawfield/PF-BookingService/internal/domain"
	"github.com/pawfield/PF-BookingService/internal/integrations/clientservice"
)

// BookingRepository интерфейс журнала бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListOverlapping(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Booking, error)
}

// RulesRepository интерфейс read-only хранилища правил и справочных данных
type RulesRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListActiveRulesByService(ctx context.Context, serviceID int64) ([]*domain.ServiceAvailabilityRule, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	ListStaffRules(ctx context.Context) ([]*domain.StaffAvailabilityRule, error)
	ListFieldsByIDs(ctx context.Context, ids []int64) ([]*domain.Field, error)
	ListVehiclesByIDs(ctx context.Context, ids []int64) ([]*domain.Vehicle, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetClient(ctx context.Context, clientID int64) (*clientservice.ClientProfile, error)
	ListPets(ctx context.Context, clientID int64) ([]clientservice.Pet, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для бизнес-метрик движка
type Metrics interface {
	IncCapacityRejection(capacityMode string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
