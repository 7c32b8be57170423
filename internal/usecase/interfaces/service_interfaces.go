package interfaces

import (
	"context"
	"io"
	"time"
)

// TokenClaims is what a verified bearer token says about its holder.
type TokenClaims struct {
	UID   string
	Email string
}

// ITokenVerifier validates bearer credentials issued by the auth provider.
type ITokenVerifier interface {
	Verify(ctx context.Context, token string) (TokenClaims, error)
}

type Recipient struct {
	Email string
	Name  string
}

// IMailer renders a named email event and delivers it.
type IMailer interface {
	Send(ctx context.Context, event string, to []Recipient, data map[string]string) (messageID string, err error)
}

// IBlobStore keeps uploaded deliverable files.
type IBlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// ICache is a byte cache for expensive read models.
type ICache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
