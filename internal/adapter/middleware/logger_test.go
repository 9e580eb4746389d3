package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error {
		c.Set(principalKey, Principal{UserID: "u1"})
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d log entries, want 3", len(entries))
	}
	ok := entries[0].ContextMap()
	if ok["status"] != int64(http.StatusNoContent) || ok["user_id"] != "u1" || ok["uri"] != "/ok" {
		t.Fatalf("unexpected fields: %v", ok)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("2xx level = %v", entries[0].Level)
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["status"] != int64(http.StatusNotFound) {
		t.Fatalf("404 entry = %v %v", entries[1].Level, entries[1].ContextMap())
	}
	if entries[2].Level != zapcore.ErrorLevel || entries[2].ContextMap()["status"] != int64(http.StatusInternalServerError) {
		t.Fatalf("500 entry = %v %v", entries[2].Level, entries[2].ContextMap())
	}
	if entries[2].ContextMap()["error"] != "boom" {
		t.Fatalf("500 entry should carry the error: %v", entries[2].ContextMap())
	}
}
