// Package transcoder wraps the external transformation tool behind an
// injectable interface so the pipeline can treat it as a black box and tests
// can substitute a deterministic fake.
package transcoder

import "context"

// Params fixes the transformation: scale to the target output height while
// preserving the pixel-aspect-ratio corrected ratio, decreasing only.
type Params struct {
	TargetHeight int
}

type Transcoder interface {
	Convert(ctx context.Context, inputPath string, outputPath string, params Params) error
}
