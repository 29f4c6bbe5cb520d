package global

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// InternalLogger logs things that should never happen in normal circumstances
var InternalLogger = log.New(os.Stderr, "internal: ", log.LstdFlags)

// MonitorLogger logs bad requests and degraded paths
var MonitorLogger = log.New(os.Stderr, "monitor: ", log.LstdFlags)

// WebsocketLogger logs stream problems
var WebsocketLogger = log.New(os.Stderr, "websocket: ", log.LstdFlags)

// AccessTokenDuration determines the length of an access token (1 hour)
var AccessTokenDuration time.Duration = time.Hour

// RefreshTokenDuration determines the lenght of a refresh token (60 days)
var RefreshTokenDuration time.Duration = time.Hour * 24 * 60

// PhotoURLDuration determines how long a presigned photo url stays valid
var PhotoURLDuration time.Duration = time.Hour * 24

// Context is the default context
var Context = context.Background()

// Validator validates incoming bodys of data
var Validator = validator.New()

// OpenLogFile opens an append-only log file and returns a logger writing to it
func OpenLogFile(path string) (*log.Logger, *os.File, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, nil, err
	}
	return log.New(file, "", log.LstdFlags), file, nil
}
