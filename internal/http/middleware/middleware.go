// Package middleware holds the chi middlewares shared by every route:
// request ids and logging, bearer-token auth and per-IP rate limiting.
package middleware

import (
	"sync"

	"github.com/rogerio-castellano/kasir/internal/logger"
)

var (
	mu         sync.RWMutex
	log        = logger.Nop()
	trustProxy bool
)

func SetLogger(l *logger.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func currentLogger() *logger.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}
