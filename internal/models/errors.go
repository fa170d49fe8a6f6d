package models

import "errors"

// Ошибки доменного уровня. Сервисы оборачивают их через fmt.Errorf("...: %w"),
// хэндлеры распознают через errors.Is и выбирают HTTP-статус.
var (
	// ErrValidation - некорректные входные данные (пустое имя, вырожденный полигон и т.п.)
	ErrValidation = errors.New("validation failed")

	// ErrNotFound - зона или инцидент с таким id не существует
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition - запрошенный переход статуса не входит в граф жизненного цикла
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPersonnelUnavailable - хотя бы один из назначаемых сотрудников не на смене
	ErrPersonnelUnavailable = errors.New("personnel unavailable")

	// ErrDegenerateZone - граница зоны непригодна для проверки принадлежности точки
	ErrDegenerateZone = errors.New("degenerate zone boundary")

	// ErrDeadlineExceeded - проверка покрытия инцидентов не уложилась в бюджет времени
	ErrDeadlineExceeded = errors.New("alert scan deadline exceeded")
)
