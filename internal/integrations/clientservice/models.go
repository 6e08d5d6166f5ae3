package clientservice

// ClientProfile профиль клиента из ClientService
type ClientProfile struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DefaultStaffID *int64 `json:"default_staff_id"` // предпочитаемый сотрудник; nil = не назначен
}

// Pet питомец клиента из ClientService
type Pet struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
}

// ErrorResponse модель ошибки от ClientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
