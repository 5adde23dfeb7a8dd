package pending

import (
	"fmt"

	"github.com/MrSnakeDoc/tuck/internal/kv"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// Queue kinds accepted by New.
const (
	KindKV    = "kv"
	KindSpool = "spool"
)

// New builds the queue selected by kind.
func New(kind string, ns kv.Namespace, spoolDir string, log logger.Logger) (Queue, error) {
	switch kind {
	case KindKV, "":
		return NewKVQueue(ns, log), nil
	case KindSpool:
		return NewSpoolQueue(spoolDir, log)
	default:
		return nil, fmt.Errorf("unknown pending queue kind %q", kind)
	}
}
