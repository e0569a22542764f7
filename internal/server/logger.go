// file: internal/server/logger.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package server

import (
	"time"

	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/sirupsen/logrus"
)

// OperationLogger tracks the lifecycle of a handler operation
type OperationLogger struct {
	handler    string
	method     string
	path       string
	startTime  time.Time
	requestID  string
	resourceID string
	details    logrus.Fields
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(handler, method, path, requestID string) *OperationLogger {
	return &OperationLogger{
		handler:   handler,
		method:    method,
		path:      path,
		startTime: time.Now(),
		requestID: requestID,
		details:   logrus.Fields{},
	}
}

// SetResourceID sets the resource ID being operated on
func (ol *OperationLogger) SetResourceID(id string) {
	ol.resourceID = id
}

// AddDetail adds a contextual detail to the operation log
func (ol *OperationLogger) AddDetail(key string, value any) {
	ol.details[key] = value
}

func (ol *OperationLogger) entry() *logrus.Entry {
	fields := logrus.Fields{
		"handler":    ol.handler,
		"method":     ol.method,
		"path":       ol.path,
		"request_id": ol.requestID,
	}
	if ol.resourceID != "" {
		fields["resource_id"] = ol.resourceID
	}
	for k, v := range ol.details {
		fields[k] = v
	}
	return logging.Log.WithFields(fields)
}

// LogStart logs the start of the operation
func (ol *OperationLogger) LogStart() {
	ol.entry().Debug("operation started")
}

// LogSuccess logs the successful completion of the operation
func (ol *OperationLogger) LogSuccess(statusCode int) {
	ol.entry().WithFields(logrus.Fields{
		"status":   statusCode,
		"duration": time.Since(ol.startTime),
	}).Info("operation completed")
}

// LogError logs an error that occurred during the operation
func (ol *OperationLogger) LogError(statusCode int, err error) {
	ol.entry().WithFields(logrus.Fields{
		"status":   statusCode,
		"duration": time.Since(ol.startTime),
	}).WithError(err).Error("operation failed")
}

// LogWarning logs a warning message
func (ol *OperationLogger) LogWarning(message string) {
	ol.entry().Warn(message)
}

// ServiceLogger provides logging for service layer operations
type ServiceLogger struct {
	serviceName string
	requestID   string
}

// NewServiceLogger creates a new service logger
func NewServiceLogger(serviceName, requestID string) *ServiceLogger {
	return &ServiceLogger{
		serviceName: serviceName,
		requestID:   requestID,
	}
}

func (sl *ServiceLogger) entry(operation string) *logrus.Entry {
	fields := logrus.Fields{
		"service":   sl.serviceName,
		"operation": operation,
	}
	if sl.requestID != "" {
		fields["request_id"] = sl.requestID
	}
	return logging.Log.WithFields(fields)
}

// LogOperation logs the execution of a service operation
func (sl *ServiceLogger) LogOperation(operation string, details map[string]any) {
	sl.entry(operation).WithFields(logrus.Fields(details)).Info("service operation")
}

// LogError logs an error from the service
func (sl *ServiceLogger) LogError(operation string, err error) {
	sl.entry(operation).WithError(err).Error("service operation failed")
}

// LogDebug logs a debug message from the service
func (sl *ServiceLogger) LogDebug(operation string, message string) {
	sl.entry(operation).Debug(message)
}

// LogAuthorizationFailure logs when authorization fails
func LogAuthorizationFailure(userID string, resource string, action string, requestID string) {
	logging.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"resource":   resource,
		"action":     action,
		"request_id": requestID,
	}).Warn("authorization failure")
}

// LogAuditEvent logs an important audit event
func LogAuditEvent(eventType string, userID string, resourceID string, action string, details string) {
	logging.Log.WithFields(logrus.Fields{
		"audit":       eventType,
		"user_id":     userID,
		"resource_id": resourceID,
		"action":      action,
	}).Info(details)
}
