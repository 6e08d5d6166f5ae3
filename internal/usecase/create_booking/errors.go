package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrClientNotFound возвращается, когда клиент не найден в ClientService
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrPetNotOwned возвращается, когда питомец не принадлежит клиенту
	ErrPetNotOwned = errors.New("create_booking: pet does not belong to client")

	// ErrSlotNotBookable возвращается, когда ни одно активное правило
	// не покрывает запрошенное окно на запрошенную дату
	ErrSlotNotBookable = errors.New("create_booking: no availability rule matches the requested slot")

	// ErrFieldSelectionRequired возвращается, когда услуга требует выбор площадки,
	// а площадки в запросе не указаны
	ErrFieldSelectionRequired = errors.New("create_booking: field selection is required for this service")

	// ErrInsufficientCapacity возвращается, когда остаток вместимости слота
	// меньше числа питомцев в запросе на момент фиксации
	ErrInsufficientCapacity = errors.New("create_booking: insufficient capacity for requested slot")

	// ErrNoStaffAvailable возвращается, когда в staff/vehicle-режиме
	// на запрошенное окно нет ни одного сотрудника на смене
	ErrNoStaffAvailable = errors.New("create_booking: no staff available for requested slot")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
