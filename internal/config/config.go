package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           int
	DataPath       string
	UploadPath     string
	SubtitlePath   string
	RenderPath     string
	TranscriptPath string

	// Transcription engine selection: "server" (whisper-server HTTP) or "cli"
	WhisperEngine    string
	WhisperURL       string
	WhisperCLIPath   string
	WhisperModelPath string

	// Translation engine selection: NLLB server preferred, DeepL fallback
	NLLBURL  string
	DeepLKey string

	FontPath    string
	CORSOrigins []string
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "./data")

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:             port,
		DataPath:         dataPath,
		UploadPath:       getEnv("UPLOAD_PATH", dataPath+"/uploads"),
		SubtitlePath:     getEnv("SUBTITLE_PATH", dataPath+"/subtitles"),
		RenderPath:       getEnv("RENDER_PATH", dataPath+"/rendered"),
		TranscriptPath:   getEnv("TRANSCRIPT_PATH", dataPath+"/transcripts"),
		WhisperEngine:    getEnv("WHISPER_ENGINE", "server"),
		WhisperURL:       getEnv("WHISPER_URL", "http://localhost:8178"),
		WhisperCLIPath:   getEnv("WHISPER_CLI", "whisper-cli"),
		WhisperModelPath: getEnv("WHISPER_MODEL", "./models"),
		NLLBURL:          os.Getenv("NLLB_URL"),
		DeepLKey:         os.Getenv("DEEPL_API_KEY"),
		FontPath:         getEnv("FONT_PATH", "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"),
		CORSOrigins:      corsOrigins,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
