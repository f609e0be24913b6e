package transcoder

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// FfmpegTranscoder invokes the ffmpeg binary as a blocking subprocess. A
// non-zero exit or failure to start surfaces the tool's diagnostic output in
// the returned error.
type FfmpegTranscoder struct {
	binary string
}

// Make sure we conform to Transcoder interface
var _ Transcoder = (*FfmpegTranscoder)(nil)

func NewFfmpeg(binary string) *FfmpegTranscoder {
	return &FfmpegTranscoder{binary: binary}
}

func (t *FfmpegTranscoder) Convert(ctx context.Context, inputPath string, outputPath string, params Params) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vf", scaleFilter(params.TargetHeight),
		outputPath,
	}
	cmd := commandContext(ctx, t.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg convert: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// scaleFilter compensates the pixel aspect ratio (iw*sar) before scaling down
// to the target height; force_original_aspect_ratio=decrease guarantees the
// output is never upscaled.
func scaleFilter(targetHeight int) string {
	return fmt.Sprintf("scale=iw*sar:%d:force_original_aspect_ratio=decrease", targetHeight)
}
