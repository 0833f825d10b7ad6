package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// New creates a new logger instance
func New(level string) *Logger {
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

	return &Logger{Logger: log}
}

// WithFields creates a new logger entry with the specified fields
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithService creates a new logger entry with service name field
func (l *Logger) WithService(service string) *logrus.Entry {
	return l.Logger.WithField("service", service)
}

// WithPatientID creates a new logger entry with patient ID field
func (l *Logger) WithPatientID(patientID string) *logrus.Entry {
	return l.Logger.WithField("patient_id", patientID)
}

// WithHospitalID creates a new logger entry with hospital ID field
func (l *Logger) WithHospitalID(hospitalID string) *logrus.Entry {
	return l.Logger.WithField("hospital_id", hospitalID)
}

// WithAlertID creates a new logger entry with alert ID field
func (l *Logger) WithAlertID(alertID string) *logrus.Entry {
	return l.Logger.WithField("alert_id", alertID)
}

// Audit logs audit events with structured format
func (l *Logger) Audit(userID, action, resource string, success bool, details map[string]interface{}) {
	entry := l.Logger.WithFields(logrus.Fields{
		"audit":    true,
		"user_id":  userID,
		"action":   action,
		"resource": resource,
		"success":  success,
		"details":  details,
	})

	if success {
		entry.Info("Audit event")
	} else {
		entry.Warn("Audit event failed")
	}
}

// Dispatch logs alert dispatch events
func (l *Logger) Dispatch(alertID, hospitalID string, triageLevel string, success bool) {
	entry := l.Logger.WithFields(logrus.Fields{
		"dispatch":     true,
		"alert_id":     alertID,
		"hospital_id":  hospitalID,
		"triage_level": triageLevel,
		"success":      success,
	})

	if success {
		entry.Info("Alert dispatched")
	} else {
		entry.Error("Alert dispatch failed")
	}
}

// Classification logs external classifier call outcomes
func (l *Logger) Classification(patientID string, attempt int, durationMs int64, success bool) {
	entry := l.Logger.WithFields(logrus.Fields{
		"classification": true,
		"patient_id":     patientID,
		"attempt":        attempt,
		"duration_ms":    durationMs,
		"success":        success,
	})

	if success {
		entry.Info("Classification completed")
	} else {
		entry.Warn("Classification attempt failed")
	}
}

// HTTPRequest logs HTTP request events
func (l *Logger) HTTPRequest(ctx context.Context, method, path string, statusCode int, durationMs int64) {
	entry := l.WithContext(ctx).WithFields(logrus.Fields{
		"http_request": true,
		"method":       method,
		"path":         path,
		"status_code":  statusCode,
		"duration_ms":  durationMs,
	})

	if statusCode >= 400 {
		entry.Warn("HTTP request completed with error")
	} else {
		entry.Info("HTTP request completed")
	}
}

// WithContext creates a logger entry with context-aware fields
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithFields(logrus.Fields{})

	if requestID := ctx.Value("request_id"); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}

	if userID := ctx.Value("user_id"); userID != nil {
		entry = entry.WithField("user_id", userID)
	}

	return entry
}
