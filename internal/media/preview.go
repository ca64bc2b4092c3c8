package media

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PreviewFrame extracts a poster frame for the inline preview.
// Seeks to 10% of the video duration for a more representative frame.
func PreviewFrame(inputPath, outputDir string) (string, error) {
	os.MkdirAll(outputDir, 0755)

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outputDir, base+"_preview.jpg")

	// Return cached frame if it exists
	if _, err := os.Stat(outputPath); err == nil {
		return outputPath, nil
	}

	seekTime := "1"
	if info, err := Probe(inputPath); err == nil && info.Duration > 0 {
		seekTo := info.Duration * 0.10
		if seekTo < 1 {
			seekTo = 0
		}
		seekTime = fmt.Sprintf("%.2f", seekTo)
	}

	cmd := exec.Command("ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-ss", seekTime,
		"-i", inputPath,
		"-vframes", "1",
		"-vf", "scale=640:-1",
		"-y",
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMediaProcessing, strings.TrimSpace(string(output)), err)
	}
	return outputPath, nil
}
