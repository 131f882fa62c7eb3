package uploader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
)

// ErrExhausted is returned when every strategy in the fallback chain failed.
var ErrExhausted = errors.New("all upload strategies failed")

// Orchestrator places a local image into exactly one remote location. When
// the self-hosted relay is reachable it gets a single direct attempt;
// otherwise the strategy chain runs against the object store, stopping at the
// first success. Strategies are never run concurrently: parallel fan-out
// would risk duplicate object creation.
type Orchestrator struct {
	relay      *RelayClient
	strategies []Strategy
	logger     util.Logger
}

func NewOrchestrator(relay *RelayClient, bucket *BucketClient, logger util.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}

	var strategies []Strategy
	if bucket != nil {
		strategies = bucket.Strategies()
	}

	return &Orchestrator{
		relay:      relay,
		strategies: strategies,
		logger:     logger,
	}
}

// WithStrategies replaces the fallback chain, preserving order.
func (o *Orchestrator) WithStrategies(strategies ...Strategy) *Orchestrator {
	o.strategies = strategies
	return o
}

// Upload produces a durable reference for the source image. On success
// exactly one object exists in exactly one location; on total failure none
// were created. Each strategy is attempted at most once, with no backoff.
func (o *Orchestrator) Upload(ctx context.Context, src Source) (Reference, error) {
	if o.relay != nil && o.relay.Probe(ctx) {
		ref, err := o.relay.Upload(ctx, src)
		if err != nil {
			// The relay path has no fallback chain: one shot, then surface.
			return "", fmt.Errorf("relay upload failed: %w", err)
		}

		return ref, nil
	}

	if len(o.strategies) == 0 {
		return "", fmt.Errorf("%w: no strategies configured", ErrExhausted)
	}

	key := blob.NewObjectName(keyExtension(src.filename()))

	var lastErr error
	for _, s := range o.strategies {
		ref, err := s.Attempt(ctx, src, key)
		if err == nil {
			o.logger.Printf("upload succeeded via %s strategy", s.Name())
			return ref, nil
		}

		o.logger.Printf("upload strategy %s failed: %v", s.Name(), err)
		lastErr = err
	}

	return "", fmt.Errorf("%w: last error: %v", ErrExhausted, lastErr)
}

func keyExtension(filename string) string {
	if ext := path.Ext(filename); ext != "" {
		return strings.ToLower(ext)
	}

	return util.ExtensionFor(util.MimeTypeOf(filename))
}
