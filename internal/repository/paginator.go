package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPaginationToken is returned when a pagination token cannot be decoded.
	ErrInvalidPaginationToken = errors.New("token is invalid")
)

const (
	// DefaultPaginationLimit is the default number of items per page.
	DefaultPaginationLimit = 50
	maxPaginationLimit     = 500
)

// Paginator represents the cursor position after the last listed product.
type Paginator struct {
	LastSection string
	LastOrder   int
	LastID      string
}

// Encode encodes the paginator state into a base64-encoded token.
func (t Paginator) Encode() string {
	key := fmt.Sprintf("%s\x1f%d\x1f%s", t.LastSection, t.LastOrder, t.LastID)
	return base64.StdEncoding.EncodeToString([]byte(key))
}

// DecodePageToken decodes a base64-encoded pagination token into a Paginator.
func DecodePageToken(encodedToken string) (*Paginator, error) {
	bytes, err := base64.StdEncoding.DecodeString(encodedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 token: %w", err)
	}
	tokenParts := strings.Split(string(bytes), "\x1f")
	expectedTokenParts := 3
	if len(tokenParts) != expectedTokenParts {
		return nil, fmt.Errorf("invalid token format: %w", ErrInvalidPaginationToken)
	}

	order, err := strconv.Atoi(tokenParts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse token order: %w", err)
	}
	if tokenParts[2] == "" {
		return nil, fmt.Errorf("empty token id: %w", ErrInvalidPaginationToken)
	}

	return &Paginator{
		LastSection: tokenParts[0],
		LastOrder:   order,
		LastID:      tokenParts[2],
	}, nil
}
