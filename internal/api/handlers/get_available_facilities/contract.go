package get_available_facilities

import (
	"context"

	getAvailableFacilities "github.com/storekit/STF-ReservationService/internal/usecase/get_available_facilities"
)

type GetAvailableFacilitiesUseCase interface {
	Execute(ctx context.Context, req *getAvailableFacilities.Request) (*getAvailableFacilities.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
