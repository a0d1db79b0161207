package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/firstcredit-backend/api/responses"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/firstcredit-backend/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"

	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// Commands that would apply twice if a client retried them, keyed by
// "METHOD route-pattern". Transitions on an existing request are left out:
// the lifecycle already refuses a repeat.
var idempotentRoutes = map[string]time.Duration{
	"POST /api/v1/child/items":                   defaultIdempotencyTTL,
	"POST /api/v1/child/items/{itemId}/purchase": defaultIdempotencyTTL,
	"POST /api/v1/child/requests":                defaultIdempotencyTTL,
	"POST /api/v1/guardian/allowance":            criticalIdempotencyTTL,
	"POST /api/v1/guardian/weeks/advance":        criticalIdempotencyTTL,
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	ttl, ok := idempotentRoutes[method+" "+pattern]
	return ttl, ok
}

// replayEntry is the JSON document stored per key.
type replayEntry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

func (e replayEntry) writeTo(w http.ResponseWriter) {
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(e.Status)
	if raw, err := base64.StdEncoding.DecodeString(e.Body); err == nil {
		_, _ = w.Write(raw)
	}
}

type replayStore struct {
	store pkgredis.IdempotencyStore
}

// lookup returns nil, nil when nothing is stored under key.
func (s replayStore) lookup(ctx context.Context, key string) (*replayEntry, error) {
	raw, err := s.store.Get(ctx, key)
	if pkgredis.IsNil(err) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	var entry replayEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &entry, nil
}

func (s replayStore) save(ctx context.Context, key string, entry replayEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.store.SetNX(ctx, key, string(payload), ttl)
	return err
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// the routes in idempotentRoutes. With required set those routes reject
// requests without the header. A nil store disables the middleware.
func Idempotency(store pkgredis.IdempotencyStore, required bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		replays := replayStore{store: store}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ttl, ok := routeTTL(r.Method, routePattern(r))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if clientKey == "" {
				if required {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintBody(body)
			key := store.IdempotencyKey(replayScope(r), clientKey)

			prior, err := replays.lookup(ctx, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if prior != nil {
				if prior.Fingerprint != fingerprint {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				prior.writeTo(w)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			status := capture.statusOrOK()
			if !replayable(status) {
				return
			}
			entry := replayEntry{
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				Fingerprint: fingerprint,
			}
			if err := replays.save(ctx, key, entry, ttl); err != nil && logg != nil {
				logg.Error(ctx, "idempotency.persist_failed", err)
			}
		})
	}
}

// replayable excludes outcomes a client is expected to retry: a busy
// account lock and server-side failures.
func replayable(status int) bool {
	return status != http.StatusConflict && status < http.StatusInternalServerError
}

func replayScope(r *http.Request) string {
	return string(RoleFromContext(r.Context())) + "|" + r.Method + "|" + r.URL.Path
}

func fingerprintBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
