package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/sublyze/backend/internal/media"
	"github.com/sublyze/backend/internal/transcribe"
)

// ErrRender marks a compositing or encoding failure. The subtitle text
// artifact, if already produced, stays valid as a fallback deliverable.
var ErrRender = errors.New("render failed")

// Segments shorter than this are stretched so the caption stays readable.
// Zero-duration segments from the transcription engine are clamped rather
// than skipped.
const minVisibleDuration = 0.5

// overlay is one caption image with its visibility window.
type overlay struct {
	pngPath string
	start   float64
	end     float64
}

// Renderer composites caption images onto the source video with ffmpeg.
type Renderer struct {
	rasterizer *Rasterizer
	renderPath string
}

func NewRenderer(fontPath, renderPath string) *Renderer {
	return &Renderer{
		rasterizer: NewRasterizer(fontPath),
		renderPath: renderPath,
	}
}

// Burn renders every non-empty segment as a bottom-center overlay visible
// for [start, end) and encodes a new video. Each call writes a fresh
// uuid-named artifact; the previous one is orphaned, not deleted.
func (r *Renderer) Burn(ctx context.Context, videoPath string, segments []transcribe.Segment, style Style) (string, error) {
	info, err := media.Probe(videoPath)
	if err != nil {
		return "", fmt.Errorf("%w: probe source: %v", ErrRender, err)
	}
	if info.Width == 0 || info.Height == 0 {
		return "", fmt.Errorf("%w: source has no video stream", ErrRender)
	}

	tmpDir, err := os.MkdirTemp("", "captions-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	defer os.RemoveAll(tmpDir)

	overlays, err := r.rasterize(tmpDir, segments, style)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.renderPath, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	outputPath := filepath.Join(r.renderPath, uuid.New().String()+"_burned.mp4")

	if len(overlays) == 0 {
		// Nothing to draw: re-encode as-is so the artifact contract holds
		log.Printf("[render] no visible captions, copying source")
	}

	args := buildBurnArgs(videoPath, overlays, outputPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("%w: ffmpeg: %s: %v", ErrRender, strings.TrimSpace(string(output)), err)
	}

	log.Printf("[render] burned %d captions into %s", len(overlays), outputPath)
	return outputPath, nil
}

// rasterize writes one caption PNG per non-empty segment and clamps
// zero/negative durations to the minimum visible duration.
func (r *Renderer) rasterize(tmpDir string, segments []transcribe.Segment, style Style) ([]overlay, error) {
	var overlays []overlay
	for i, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}

		start, end := clampWindow(seg.Start, seg.End)

		img, err := r.rasterizer.Caption(seg.Text, style)
		if err != nil {
			return nil, fmt.Errorf("%w: caption %d: %v", ErrRender, i+1, err)
		}

		pngPath := filepath.Join(tmpDir, fmt.Sprintf("caption_%03d.png", i))
		if err := gg.SavePNG(pngPath, img); err != nil {
			return nil, fmt.Errorf("%w: save caption %d: %v", ErrRender, i+1, err)
		}

		overlays = append(overlays, overlay{pngPath: pngPath, start: start, end: end})
	}
	return overlays, nil
}

// clampWindow stretches zero or negative duration windows to the minimum
// visible duration.
func clampWindow(start, end float64) (float64, float64) {
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + minVisibleDuration
	}
	return start, end
}

// buildBurnArgs assembles the ffmpeg invocation: the source plus one
// image input per caption, chained overlay filters anchored bottom-center
// and gated on each segment's time window, encoded H.264/AAC.
func buildBurnArgs(videoPath string, overlays []overlay, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
	}
	for _, ov := range overlays {
		args = append(args, "-i", ov.pngPath)
	}

	if len(overlays) > 0 {
		args = append(args, "-filter_complex", buildFilterGraph(overlays))
		args = append(args, "-map", fmt.Sprintf("[v%d]", len(overlays)))
	} else {
		args = append(args, "-map", "0:v")
	}

	args = append(args,
		"-map", "0:a?",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-y",
		outputPath,
	)
	return args
}

// buildFilterGraph chains one overlay per caption over the base video.
// gte/lt gate each caption to [start, end); between() would include the
// end instant and stack abutting captions for one frame.
func buildFilterGraph(overlays []overlay) string {
	var sb strings.Builder
	prev := "[0:v]"
	for i, ov := range overlays {
		out := fmt.Sprintf("[v%d]", i+1)
		sb.WriteString(fmt.Sprintf(
			"%s[%d:v]overlay=(W-w)/2:H-h:enable='gte(t,%.3f)*lt(t,%.3f)'%s",
			prev, i+1, ov.start, ov.end, out,
		))
		if i < len(overlays)-1 {
			sb.WriteString(";")
		}
		prev = out
	}
	return sb.String()
}
