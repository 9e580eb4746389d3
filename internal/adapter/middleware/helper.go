package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-7][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// record is what the idempotency store keeps per key. InProgress records are
// placeholders written before the handler runs.
type record struct {
	InProgress bool      `json:"in_progress"`
	Status     int       `json:"status"`
	Body       []byte    `json:"body"`
	BodyHash   string    `json:"body_hash"`
	RequestID  string    `json:"request_id"`
	RequestAt  int64     `json:"request_at_ms"`
	SavedAt    time.Time `json:"saved_at"`
}

func (r record) replayable() bool { return !r.InProgress && r.Status != 0 }

type recordStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// reserve writes an in-progress record unless the key exists. It reports
// whether this caller owns the key.
func (s recordStore) reserve(ctx context.Context, key string, r record) (bool, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, raw, provisionalLockTTL).Result()
}

func (s recordStore) load(ctx context.Context, key string) (record, error) {
	var r record
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, nil
}

func (s recordStore) commit(ctx context.Context, key string, r record) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, s.ttl).Err()
}

func (s recordStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func idemKey(method, route, scope, requestID string) string {
	return strings.Join([]string{"idemp", strings.ToLower(method), route, scope, requestID}, ":")
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// validReqID accepts a lowercase UUID (v1 to v7) or 32 lowercase hex characters.
func validReqID(id string) bool {
	return reHex32.MatchString(id) || reUUID.MatchString(id)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339(Nano)
// with an explicit zone.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// readHeaders validates the idempotency headers against now. The returned
// error text is safe to send to the client.
func readHeaders(h http.Header, now time.Time) (string, time.Time, error) {
	reqID := strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case reqID == "":
		return "", time.Time{}, errors.New("missing " + HeaderRequestID)
	case !validReqID(reqID):
		return "", time.Time{}, errors.New("invalid " + HeaderRequestID + " format")
	}
	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return "", time.Time{}, err
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return "", time.Time{}, errors.New(HeaderRequestAt + " too skewed")
	}
	return reqID, at, nil
}
