// file: internal/server/logger_test.go
// version: 2.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a7b

package server

import (
	"errors"
	"testing"

	"github.com/classificacaofinal/classificacao/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *test.Hook {
	t.Helper()
	hook := test.NewLocal(logging.Log)
	previous := logging.Log.GetLevel()
	logging.Log.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logging.Log.SetLevel(previous)
		hook.Reset()
	})
	return hook
}

func TestNewOperationLogger(t *testing.T) {
	ol := NewOperationLogger("createContest", "POST", "/api/contests", "req-1")
	assert.Equal(t, "createContest", ol.handler)
	assert.Equal(t, "POST", ol.method)
	assert.Equal(t, "/api/contests", ol.path)
	assert.Equal(t, "req-1", ol.requestID)
	assert.False(t, ol.startTime.IsZero())
	assert.NotNil(t, ol.details)
}

func TestOperationLogger_Fields(t *testing.T) {
	hook := captureLogs(t)

	ol := NewOperationLogger("updateContest", "PUT", "/api/contests/3", "req-2")
	ol.SetResourceID("3")
	ol.AddDetail("fields", 2)
	ol.LogSuccess(200)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "3", entry.Data["resource_id"])
	assert.Equal(t, 2, entry.Data["fields"])
	assert.Equal(t, 200, entry.Data["status"])
	assert.Equal(t, "req-2", entry.Data["request_id"])
}

func TestOperationLogger_LogError(t *testing.T) {
	hook := captureLogs(t)

	ol := NewOperationLogger("deleteContest", "DELETE", "/api/contests/9", "")
	ol.LogError(500, errors.New("locked"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "locked")
}

func TestServiceLogger(t *testing.T) {
	hook := captureLogs(t)

	sl := NewServiceLogger("MatchService", "req-3")
	sl.LogOperation("Compare", map[string]any{"matches": 4})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "MatchService", entry.Data["service"])
	assert.Equal(t, "Compare", entry.Data["operation"])
	assert.Equal(t, 4, entry.Data["matches"])

	sl.LogError("Compare", errors.New("boom"))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestLogAuditEvent(t *testing.T) {
	hook := captureLogs(t)

	LogAuditEvent("contest", "user-1", "7", "delete", "contest removed")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "contest removed", entry.Message)
	assert.Equal(t, "delete", entry.Data["action"])
	assert.Equal(t, "user-1", entry.Data["user_id"])
}
