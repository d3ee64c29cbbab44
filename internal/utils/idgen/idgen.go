package idgen

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

func newID(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return prefix + strings.ToLower(id.String())
}

// NewConversationID returns a conv_* ULID string.
func NewConversationID() string {
	return newID("conv_")
}

// NewMessageID returns a msg_* ULID string.
func NewMessageID() string {
	return newID("msg_")
}

// NewFileID returns a file_* ULID string.
func NewFileID() string {
	return newID("file_")
}
