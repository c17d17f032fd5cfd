package clientservice

// ResolveClientRequest запрос на поиск или создание клиента по email
type ResolveClientRequest struct {
	OrganizationID int64   `json:"organization_id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Phone          *string `json:"phone,omitempty"`
}

// ResolvedClient результат разрешения клиента: существующая или только что
// созданная пара клиент/контакт
type ResolvedClient struct {
	ClientID  int64 `json:"client_id"`
	ContactID int64 `json:"contact_id"`
	Created   bool  `json:"created"` // true, если клиент был создан этим вызовом
}

// ErrorResponse модель ошибки от клиентского сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
