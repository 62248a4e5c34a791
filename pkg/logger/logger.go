package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with insurance-platform helpers
type Logger struct {
	*logrus.Logger
	service string
}

// New creates a new JSON logger for the named service
func New(service, level string) *Logger {
	log := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(os.Stdout)

	return &Logger{Logger: log, service: service}
}

// WithFields creates a new logger entry with the specified fields
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields)).WithField("service", l.service)
}

// WithError creates a new logger entry with an error field
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err).WithField("service", l.service)
}

// WithRequestID creates a new logger entry with a request ID field
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.WithFields(map[string]interface{}{"request_id": requestID})
}

// WithHolderID creates a new logger entry with a policyholder field
func (l *Logger) WithHolderID(holderID string) *logrus.Entry {
	return l.WithFields(map[string]interface{}{"holder_id": holderID})
}

// Audit logs an audit event in structured form
func (l *Logger) Audit(holderID, action, resource string, success bool, details map[string]interface{}) {
	entry := l.WithFields(map[string]interface{}{
		"audit":     true,
		"holder_id": holderID,
		"action":    action,
		"resource":  resource,
		"success":   success,
		"details":   details,
	})

	if success {
		entry.Info("Audit event")
	} else {
		entry.Warn("Audit event failed")
	}
}

// PremiumChange logs a premium adjustment applied to a policy
func (l *Logger) PremiumChange(policyID uint64, oldPremium, newPremium int64, riskCategory string) {
	l.WithFields(map[string]interface{}{
		"premium_change": true,
		"policy_id":      policyID,
		"old_premium":    oldPremium,
		"new_premium":    newPremium,
		"risk_category":  riskCategory,
	}).Info("Premium adjusted")
}

// BlockchainTransaction logs a chaincode invocation
func (l *Logger) BlockchainTransaction(chaincode, function string, success bool, txID string) {
	entry := l.WithFields(map[string]interface{}{
		"blockchain":     true,
		"chaincode":      chaincode,
		"function":       function,
		"success":        success,
		"transaction_id": txID,
	})

	if success {
		entry.Info("Blockchain transaction completed")
	} else {
		entry.Error("Blockchain transaction failed")
	}
}

// HTTPRequest logs one served HTTP request
func (l *Logger) HTTPRequest(method, path, clientIP string, statusCode int, durationMs int64) {
	entry := l.WithFields(map[string]interface{}{
		"http_request": true,
		"method":       method,
		"path":         path,
		"client_ip":    clientIP,
		"status_code":  statusCode,
		"duration_ms":  durationMs,
	})

	if statusCode >= 400 {
		entry.Warn("HTTP request completed with error")
	} else {
		entry.Info("HTTP request completed")
	}
}
