package cancel_reservation

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64  // ID бронирования
	UserID        int64  // Кто отменяет
	Reason        string // Причина отмены (опционально)
}
