package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// HeaderClientID заголовок с ID клиента, проставляется API-гейтвеем
// после проверки сессии портала
const HeaderClientID = "X-Client-ID"

type contextKey string

const clientIDKey contextKey = "clientID"

// Auth извлекает ID клиента из заголовка и кладет его в контекст запроса.
// Запросы без валидного заголовка отклоняются с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIDStr := r.Header.Get(HeaderClientID)
		if clientIDStr == "" {
			http.Error(w, "missing "+HeaderClientID+" header", http.StatusUnauthorized)
			return
		}

		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil || clientID <= 0 {
			http.Error(w, "invalid "+HeaderClientID+" header", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), clientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientID возвращает ID клиента из контекста запроса
func GetClientID(ctx context.Context) (int64, bool) {
	clientID, ok := ctx.Value(clientIDKey).(int64)
	return clientID, ok
}
