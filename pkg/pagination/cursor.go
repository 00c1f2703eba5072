// Package pagination implements keyset (cursor) pagination shared by every
// list endpoint: rows are ordered by (sortKey DESC, id DESC) and a page is
// resumed from the last row of the previous one.
package pagination

import (
	"strconv"
	"time"

	"NewTube.com/pkg/errno"
	"github.com/google/uuid"
)

const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
)

type SortKey interface {
	time.Time | int64
}

// Cursor identifies the last row of a page.
type Cursor[K SortKey] struct {
	Id           string `json:"id"`
	SortKeyValue K      `json:"sort_key_value"`
}

type Page[T any, K SortKey] struct {
	Items      []T        `json:"items"`
	NextCursor *Cursor[K] `json:"next_cursor"`
}

// CheckLimit rejects page sizes outside [MinLimit, MaxLimit].
func CheckLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return errno.ParamErr.WithMessage("limit must be between 1 and 100, got " + strconv.Itoa(limit))
	}
	return nil
}

// ParseTimeCursor builds a cursor from the cursor_id/cursor_value request
// parameters. Both empty means first page.
func ParseTimeCursor(id, value string) (*Cursor[time.Time], error) {
	if id == "" && value == "" {
		return nil, nil
	}
	if err := checkCursorId(id, value); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, errno.ParamErr.WithMessage("malformed cursor value: " + value)
	}
	return &Cursor[time.Time]{Id: id, SortKeyValue: t.UTC()}, nil
}

func ParseCountCursor(id, value string) (*Cursor[int64], error) {
	if id == "" && value == "" {
		return nil, nil
	}
	if err := checkCursorId(id, value); err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return nil, errno.ParamErr.WithMessage("malformed cursor value: " + value)
	}
	return &Cursor[int64]{Id: id, SortKeyValue: n}, nil
}

func checkCursorId(id, value string) error {
	if id == "" || value == "" {
		return errno.ParamErr.WithMessage("cursor_id and cursor_value must be given together")
	}
	if _, err := uuid.Parse(id); err != nil {
		return errno.ParamErr.WithMessage("malformed cursor id: " + id)
	}
	return nil
}
