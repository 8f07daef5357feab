package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "sort menu item not found",
		Data:    logrus.Fields{"sort": "newest", "place": "鼎泰豐"},
	}

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-05-01 08:30:00] [WARN] [] sort menu item not found place=鼎泰豐 sort=newest\n", string(out))
}

func TestKratosLoggerBridge(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&CustomFormatter{})

	kl := NewKratosLogger(l)
	require.NoError(t, kl.Log(log.LevelError, "msg", "boom", "operation", "/api/analysis"))

	assert.Contains(t, buf.String(), "[ERRO]")
	assert.Contains(t, buf.String(), "boom operation=/api/analysis")
}

func TestNewFallsBackToInfo(t *testing.T) {
	l, err := New("not-a-level", "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewWithConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithConsole("debug", "", &buf)
	require.NoError(t, err)

	l.Debug("scrolling")
	assert.Contains(t, buf.String(), "[DEBU]")
	assert.Contains(t, buf.String(), "scrolling")
}
