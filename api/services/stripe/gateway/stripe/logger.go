package stripegw

import (
	"fmt"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v82"
)

// slogLogger routes stripe-go's leveled logging into slog.
type slogLogger struct{ l *slog.Logger }

// NewLogger adapts logger for the Stripe SDK. A nil logger uses slog.Default().
func NewLogger(logger *slog.Logger) stripe.LeveledLoggerInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{l: logger.With("component", "stripe-go")}
}

func (s slogLogger) Debugf(format string, v ...interface{}) { s.l.Debug(fmt.Sprintf(format, v...)) }
func (s slogLogger) Infof(format string, v ...interface{})  { s.l.Info(fmt.Sprintf(format, v...)) }
func (s slogLogger) Warnf(format string, v ...interface{})  { s.l.Warn(fmt.Sprintf(format, v...)) }
func (s slogLogger) Errorf(format string, v ...interface{}) { s.l.Error(fmt.Sprintf(format, v...)) }
