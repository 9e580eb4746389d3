package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderRequestAt = "X-Request-At"
	HeaderReplayed  = "Idempotent-Replayed"

	// a crashed handler frees its key after this
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
	storeTimeout       = 2 * time.Second
	anonymousScope     = "anonymous"
)

type teeWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// Idempotency guards mutating requests. The key is method + route + caller +
// X-Request-Id, so a retried POST replays the stored response instead of
// running twice. Responses with a 5xx status are not stored, so the client
// may retry them.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	store := recordStore{rdb: rdb, ttl: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			now := time.Now().UTC()
			reqID, reqAt, err := readHeaders(req.Header, now)
			if err != nil {
				return errJSON(c, http.StatusBadRequest, err.Error())
			}

			scope := anonymousScope
			if p, ok := PrincipalFrom(c); ok {
				scope = p.UserID
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := digest(body)
			key := idemKey(req.Method, c.Path(), scope, reqID)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			owned, err := store.reserve(ctx, key, record{
				InProgress: true,
				BodyHash:   hash,
				RequestID:  reqID,
				RequestAt:  reqAt.UnixMilli(),
				SavedAt:    now,
			})
			if err != nil {
				log.Error("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return errJSON(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !owned {
				prev, err := store.load(ctx, key)
				if err != nil {
					log.Warn("idempotency record unreadable", zap.String("key", key), zap.Error(err))
				}
				switch {
				case prev.BodyHash != "" && prev.BodyHash != hash:
					return errJSON(c, http.StatusConflict, HeaderRequestID+" reused with different body")
				case prev.replayable():
					c.Response().Header().Set(HeaderReplayed, "true")
					if len(prev.Body) == 0 {
						return c.NoContent(prev.Status)
					}
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				default:
					return errJSON(c, http.StatusConflict, "request is already in progress")
				}
			}

			tee := &teeWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = tee
			if err := next(c); err != nil {
				c.Error(err)
			}

			// detached: the request context may already be cancelled
			saveCtx, saveCancel := context.WithTimeout(context.Background(), storeTimeout)
			defer saveCancel()
			if tee.status >= http.StatusInternalServerError {
				if err := store.release(saveCtx, key); err != nil {
					log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			err = store.commit(saveCtx, key, record{
				Status:    tee.status,
				Body:      tee.buf.Bytes(),
				BodyHash:  hash,
				RequestID: reqID,
				RequestAt: reqAt.UnixMilli(),
				SavedAt:   time.Now().UTC(),
			})
			if err != nil {
				log.Warn("idempotency save failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
