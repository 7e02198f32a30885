package schedule

import "errors"

var (
	// ErrInvalidFormat возвращается для нечитаемого или структурно
	// некорректного документа расписания
	ErrInvalidFormat = errors.New("schedule: invalid schedule format")
)
