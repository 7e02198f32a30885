package scheduling

import (
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
)

// WithinAdvanceWindow проверяет, что кандидат попадает в допустимое окно
// заблаговременного бронирования: не раньше, чем через canReserveBefore
// часов от nowUTC, и не дальше горизонта canReserveAfter часов
// (canReserveAfter = 0 означает отсутствие горизонта).
func WithinAdvanceWindow(nowUTC, candidateUTC time.Time, canReserveBeforeHours, canReserveAfterHours int) bool {
	lead := candidateUTC.Sub(nowUTC)
	if lead < time.Duration(canReserveBeforeHours)*time.Hour {
		return false
	}
	if canReserveAfterHours > 0 && lead > time.Duration(canReserveAfterHours)*time.Hour {
		return false
	}
	return true
}

// InCancelLockout проверяет, находится ли бронирование в окне блокировки
// отмены/изменения. При canCancel=false отмена запрещена всегда,
// независимо от времени до начала.
func InCancelLockout(nowUTC, reservationStartUTC time.Time, canCancel bool, cancelHours int) bool {
	if !canCancel {
		return true
	}
	return reservationStartUTC.Sub(nowUTC) < time.Duration(cancelHours)*time.Hour
}

// CanMutate проверяет, допускает ли политика отмену или перенос
// бронирования в текущий момент. Завершенные и неактивные бронирования
// немутабельны независимо от времени.
func CanMutate(r *domain.Reservation, p *domain.PolicyConfig, nowUTC time.Time) bool {
	if !r.IsMutable() {
		return false
	}
	return !InCancelLockout(nowUTC, r.StartTime, p.CanCancel, p.CancelHours)
}

// WouldEnterLockoutIfMoved проверяет, попадет ли бронирование внутрь
// собственного окна блокировки после переноса на candidateNewStartUTC.
// Это мягкое предупреждение, требующее явного подтверждения пользователя,
// а не жесткий запрет.
func WouldEnterLockoutIfMoved(candidateNewStartUTC time.Time, p *domain.PolicyConfig, nowUTC time.Time) bool {
	if !p.CanCancel {
		// Без права отмены перенос и так запрещен политикой,
		// предупреждение не имеет смысла
		return false
	}
	return candidateNewStartUTC.Sub(nowUTC) < time.Duration(p.CancelHours)*time.Hour
}
