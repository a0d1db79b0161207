package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any cursor request can return.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor identifies the last row handed to the caller.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Page is one slice of an ordered collection plus the cursor for the next one.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components. An empty
// value yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: t, ID: id}, nil
}

// Slice pages through items, which must already be in display order. The
// cursor names the last item of the previous page; rows resume right after it.
// A cursor that no longer matches any item is rejected.
func Slice[T any](items []T, params Params, keyOf func(T) Cursor) (Page[T], error) {
	limit := NormalizeLimit(params.Limit)

	cursor, err := ParseCursor(params.Cursor)
	if err != nil {
		return Page[T]{}, err
	}

	start := 0
	if cursor != nil {
		start = -1
		for i, item := range items {
			if keyOf(item).ID == cursor.ID {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Page[T]{}, fmt.Errorf("cursor does not match any row")
		}
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	page := Page[T]{Items: append([]T(nil), items[start:end]...)}
	if end < len(items) && end > start {
		page.NextCursor = EncodeCursor(keyOf(items[end-1]))
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
