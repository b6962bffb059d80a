package storage

import (
	"context"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

// SampleSink records network telemetry samples observed by the watch loop.
type SampleSink interface {
	PutSample(ctx context.Context, sample model.StatsSample) error
}
