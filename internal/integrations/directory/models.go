package directory

// Organization модель организации из справочного сервиса
type Organization struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Locale string `json:"locale"` // Напр. "ru", "en"
}

// BookingType модель услуги (типа бронирования) организации
type BookingType struct {
	ID                   int64    `json:"id"`
	OrganizationID       int64    `json:"organization_id"`
	Name                 string   `json:"name"`
	DurationMinutes      int      `json:"duration_minutes"`
	Price                *float64 `json:"price"`
	Currency             string   `json:"currency"`
	LocationType         string   `json:"location_type"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
}

// ErrorResponse модель ошибки от справочного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
