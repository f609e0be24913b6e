package transcoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("FFMPEG_HELPER_MODE") == "fail" {
		fmt.Fprintln(os.Stderr, "Invalid data found when processing input")
		os.Exit(1)
	}
	os.Exit(0)
}

func fakeCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestConvertBuildsScaleArguments(t *testing.T) {
	var capturedArgs []string
	fakeCommand(t, "success", &capturedArgs)

	trans := NewFfmpeg("ffmpeg")
	err := trans.Convert(context.Background(), "/scratch/raw/abc-123.mp4", "/scratch/processed/processed-abc-123.mp4", Params{TargetHeight: 360})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	joined := strings.Join(capturedArgs, " ")
	if !strings.Contains(joined, "-i /scratch/raw/abc-123.mp4") {
		t.Fatalf("expected input path in arguments, got %q", joined)
	}
	if !strings.Contains(joined, "-vf scale=iw*sar:360:force_original_aspect_ratio=decrease") {
		t.Fatalf("expected scale filter in arguments, got %q", joined)
	}
	if capturedArgs[len(capturedArgs)-1] != "/scratch/processed/processed-abc-123.mp4" {
		t.Fatalf("expected output path as final argument, got %q", capturedArgs[len(capturedArgs)-1])
	}
}

func TestConvertSurfacesToolDiagnostics(t *testing.T) {
	var capturedArgs []string
	fakeCommand(t, "fail", &capturedArgs)

	trans := NewFfmpeg("ffmpeg")
	err := trans.Convert(context.Background(), "in.mp4", "out.mp4", Params{TargetHeight: 360})
	if err == nil {
		t.Fatal("expected error from failing tool")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected diagnostic output in error, got %q", err)
	}
}

func TestConvertReportsStartFailure(t *testing.T) {
	trans := NewFfmpeg("/nonexistent/ffmpeg-binary")
	err := trans.Convert(context.Background(), "in.mp4", "out.mp4", Params{TargetHeight: 360})
	if err == nil {
		t.Fatal("expected error when the tool cannot start")
	}
}
