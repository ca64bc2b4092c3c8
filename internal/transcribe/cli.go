package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// CLIEngine runs the whisper.cpp binary locally. The model file is
// resolved once per process (get-or-create) and reused for every run.
type CLIEngine struct {
	binaryPath string
	modelPath  string

	resolveOnce   sync.Once
	resolvedModel string
	resolveErr    error
}

func NewCLIEngine(binaryPath, modelPath string) *CLIEngine {
	return &CLIEngine{binaryPath: binaryPath, modelPath: modelPath}
}

func (e *CLIEngine) Name() string {
	return "whisper-cli"
}

// cliOutput is whisper.cpp's -oj JSON file. Offsets are milliseconds.
type cliOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (e *CLIEngine) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	modelPath, err := e.model()
	if err != nil {
		return nil, err
	}

	outBase := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	cmd := exec.CommandContext(ctx, e.binaryPath,
		"-m", modelPath,
		"-f", audioPath,
		"-of", outBase,
		"-oj",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper-cli: %s: %w", strings.TrimSpace(string(output)), err)
	}

	jsonPath := outBase + ".json"
	defer os.Remove(jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper-cli completed but JSON output is missing: %w", err)
	}

	var out cliOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper-cli output: %w", err)
	}

	result := &Result{Segments: make([]Segment, 0, len(out.Transcription))}
	var full strings.Builder
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		result.Segments = append(result.Segments, Segment{
			Start: float64(t.Offsets.From) / 1000.0,
			End:   float64(t.Offsets.To) / 1000.0,
			Text:  text,
		})
		if text != "" {
			if full.Len() > 0 {
				full.WriteString(" ")
			}
			full.WriteString(text)
		}
	}
	result.Text = full.String()

	return result, nil
}

// model resolves the configured model path, accepting either a model file
// or a directory holding .bin/.gguf files (first one alphabetically wins).
func (e *CLIEngine) model() (string, error) {
	e.resolveOnce.Do(func() {
		e.resolvedModel, e.resolveErr = resolveModelPath(e.modelPath)
	})
	return e.resolvedModel, e.resolveErr
}

func resolveModelPath(rawPath string) (string, error) {
	modelPath := strings.TrimSpace(rawPath)
	if modelPath == "" {
		return "", fmt.Errorf("model path is required")
	}

	info, err := os.Stat(modelPath)
	if err != nil {
		return "", fmt.Errorf("cannot access model path: %s", modelPath)
	}
	if !info.IsDir() {
		return modelPath, nil
	}

	entries, err := os.ReadDir(modelPath)
	if err != nil {
		return "", fmt.Errorf("cannot read model directory: %s", modelPath)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".bin" || ext == ".gguf" {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .bin or .gguf model files found in: %s", modelPath)
	}

	sort.Strings(names)
	return filepath.Join(modelPath, names[0]), nil
}
