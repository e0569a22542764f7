// file: internal/database/tokens.go
// version: 1.0.0
// guid: 3bc8d7be-93f5-495f-97e5-c56ddb8a641a

package database

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// NewToken returns 32 random bytes encoded as unpadded base64url.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewID returns a sortable unique identifier for users.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
