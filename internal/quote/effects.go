package quote

import "fmt"

// EffectKind names a side effect the caller must carry out after a
// successful mutation. The engine itself performs no I/O; it only states
// its intents.
type EffectKind string

const (
	EffectPersist     EffectKind = "PERSIST"
	EffectLogActivity EffectKind = "LOG_ACTIVITY"
)

// Effect is one side-effect intent returned by a mutation.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

func persist() Effect {
	return Effect{Kind: EffectPersist}
}

func logActivity(format string, args ...any) Effect {
	return Effect{Kind: EffectLogActivity, Message: fmt.Sprintf(format, args...)}
}
