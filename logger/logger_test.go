package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/go-arcsdk/arcsdk/logger"
)

func TestDebugLevelWritesAtDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	logger.SetOutput(l)

	logger.DebugLevel.Log("open: parsing headers")

	if !strings.Contains(buf.String(), "open: parsing headers") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "level=debug") {
		t.Fatalf("expected debug level in output, got %q", buf.String())
	}
}

func TestLogfFormats(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	logger.SetOutput(l)

	logger.WarnLevel.Logf("retrying codec %d of %d", 2, 3)

	if !strings.Contains(buf.String(), "retrying codec 2 of 3") {
		t.Fatalf("expected formatted message, got %q", buf.String())
	}
}
