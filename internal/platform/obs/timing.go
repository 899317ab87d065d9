package obs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID attaches a short random id to the context so every
// timed operation in one request logs under the same tag.
func WithRequestID(ctx context.Context) context.Context {
	var b [4]byte
	rand.Read(b[:])
	return context.WithValue(ctx, RequestIDKey, hex.EncodeToString(b[:]))
}

// Time logs the duration of an operation when the returned func runs,
// typically deferred. Pass the address of a named error return to tag
// failures.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
