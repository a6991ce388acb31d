package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest represents pagination query parameters.
type PaginationRequest struct {
	// Cursor is the opaque nextCursor of a previous page.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of items to return. Zero leaves the choice
	// to the server.
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// DecodeCursor returns the decoded cursor, or nil on the first page.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	if p.Cursor == "" {
		return nil, nil
	}

	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is a page of items.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPaginatedResponse builds a page from up to limit+1 items; the extra item
// only signals that another page exists.
func NewPaginatedResponse[T any](items []T, limit int, cursorBuilder func(T) *CursorData) *PaginatedResponse[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	if items == nil {
		items = []T{}
	}

	var nextCursor string
	if hasMore && len(items) > 0 && cursorBuilder != nil {
		nextCursor = EncodeCursor(cursorBuilder(items[len(items)-1]))
	}

	return &PaginatedResponse[T]{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}

// CursorData is the position encoded in a cursor.
type CursorData struct {
	// Field is the sort field (e.g., "created_at").
	Field string `json:"f"`

	// Value is the sort field value of the last item.
	Value string `json:"v"`

	// ID breaks ties between equal sort values.
	ID string `json:"id"`
}

// NewCursor creates a new cursor from field, value, and ID.
func NewCursor(field, value, id string) *CursorData {
	return &CursorData{Field: field, Value: value, ID: id}
}

// EncodeCursor encodes cursor data as URL-safe base64 JSON.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor decodes a cursor produced by EncodeCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
