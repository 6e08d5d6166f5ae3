// Package middleware общие HTTP middleware: идентификация клиента,
// request id, метрики и ограничение частоты запросов
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pawfield/PF-BookingService/internal/api/handlers"
)

type contextKey string

const clientIDKey contextKey = "clientID"

const msgMissingClientID = "отсутствует или некорректен заголовок X-Client-ID"

// Auth извлекает ID клиента из заголовка X-Client-ID и кладёт его в контекст
//
// Аутентификацию выполняет API-gateway выше по цепочке; сюда приходит
// уже проверенный ID. Запросы без заголовка отклоняются.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIDStr := r.Header.Get("X-Client-ID")
		if clientIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingClientID)
			return
		}

		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil || clientID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingClientID)
			return
		}

		ctx := context.WithValue(r.Context(), clientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientID возвращает ID клиента из контекста
func GetClientID(ctx context.Context) (int64, bool) {
	clientID, ok := ctx.Value(clientIDKey).(int64)
	return clientID, ok
}
