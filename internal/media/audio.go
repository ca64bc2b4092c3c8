package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractAudio demuxes and resamples the video's audio track to WAV
// 16kHz mono PCM (the input format whisper engines expect) and writes it
// to a sibling path. A container without an audio stream is rejected
// before ffmpeg runs.
func ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	info, err := Probe(videoPath)
	if err != nil {
		return "", err
	}
	if !info.HasAudio() {
		return "", fmt.Errorf("%w: video has no audio stream", ErrMediaProcessing)
	}

	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn", // no video
		"-acodec", "pcm_s16le",
		"-ar", "16000", // 16kHz
		"-ac", "1", // mono
		"-y", // overwrite
		audioPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(audioPath)
		return "", fmt.Errorf("%w: ffmpeg: %s: %v", ErrMediaProcessing, strings.TrimSpace(string(output)), err)
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("%w: ffmpeg completed but output file is missing", ErrMediaProcessing)
	}

	return audioPath, nil
}
