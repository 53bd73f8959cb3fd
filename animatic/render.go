package animatic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one renderable shot for the exported animatic.
type Frame struct {
	Image []byte
	// Ext includes the dot, e.g. ".png".
	Ext  string
	Line string
}

type RenderInput struct {
	Frames []Frame
	// Narration is a WAV file; empty renders a silent animatic.
	Narration         []byte
	NarrationDuration time.Duration
}

// Segments returns how long each frame stays on screen: the weighted
// partition of the narration when there is one, a fixed slide otherwise.
func Segments(lines []string, narration time.Duration, slide time.Duration) []time.Duration {
	out := make([]time.Duration, len(lines))
	if narration <= 0 {
		for i := range out {
			out[i] = slide
		}
		return out
	}
	for i, r := range Partition(lines) {
		out[i] = time.Duration((r.End - r.Start) * float64(narration))
	}
	return out
}

// concatList is the ffmpeg concat demuxer script. The last image is repeated
// since the demuxer ignores the final duration otherwise.
func concatList(paths []string, durations []time.Duration) string {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for i, p := range paths {
		fmt.Fprintf(&b, "file '%s'\nduration %.3f\n", strings.ReplaceAll(p, "'", `'\''`), durations[i].Seconds())
	}
	if len(paths) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(paths[len(paths)-1], "'", `'\''`))
	}
	return b.String()
}

func buildStream(listPath string, audioPath string, outputPath string) *ffmpeg.Stream {
	scale := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,format=yuv420p",
		config.AnimaticWidth, config.AnimaticHeight, config.AnimaticWidth, config.AnimaticHeight)
	video := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"})
	kwargs := ffmpeg.KwArgs{
		"vf":     scale,
		"c:v":    "libx264",
		"preset": "fast",
		"r":      "30",
	}
	var out *ffmpeg.Stream
	if audioPath != "" {
		kwargs["c:a"] = "aac"
		kwargs["b:a"] = "192k"
		kwargs["shortest"] = ""
		out = ffmpeg.Output([]*ffmpeg.Stream{video, ffmpeg.Input(audioPath)}, outputPath, kwargs)
	} else {
		out = video.Output(outputPath, kwargs)
	}
	return out.OverWriteOutput().SetFfmpegPath(config.FFmpegBinary)
}

// Render writes an MP4 animatic to outputPath.
func Render(ctx context.Context, input RenderInput, outputPath string) error {
	if len(input.Frames) == 0 {
		return ErrNothingToPlay
	}
	workDir, err := os.MkdirTemp("", "animatic-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	paths := make([]string, len(input.Frames))
	lines := make([]string, len(input.Frames))
	for i, f := range input.Frames {
		ext := f.Ext
		if ext == "" {
			ext = ".png"
		}
		paths[i] = filepath.Join(workDir, fmt.Sprintf("shot_%d%s", i+1, ext))
		if err = os.WriteFile(paths[i], f.Image, 0o600); err != nil {
			return err
		}
		lines[i] = f.Line
	}

	audioPath := ""
	narration := time.Duration(0)
	if len(input.Narration) > 0 {
		audioPath = filepath.Join(workDir, "narration.wav")
		if err = os.WriteFile(audioPath, input.Narration, 0o600); err != nil {
			return err
		}
		narration = input.NarrationDuration
	}
	durations := Segments(lines, narration, config.AnimaticSlideDuration)
	listPath := filepath.Join(workDir, "frames.txt")
	if err = os.WriteFile(listPath, []byte(concatList(paths, durations)), 0o600); err != nil {
		return err
	}

	cmd := buildStream(listPath, audioPath, outputPath).Compile()
	logger.Infof(ctx, "rendering animatic: %d frames, narration %v", len(paths), audioPath != "")
	done := make(chan error, 1)
	if err = cmd.Start(); err != nil {
		return errors.Wrap(err, "start ffmpeg")
	}
	go func() { done <- cmd.Wait() }()
	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err = <-done:
		if err != nil {
			return errors.Wrap(err, "ffmpeg failed")
		}
	}
	return nil
}
