// Package speech turns finished stories into narrated audio. Synthesis is
// best effort: when it is disabled or fails, callers get no audio URL and
// the story is still served.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Backend synthesizes one chunk of text to MP3 bytes.
type Backend interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Mode selects how audio is handed back to callers.
type Mode string

const (
	// ModeDataURL embeds the MP3 as data:audio/mpeg;base64,...
	ModeDataURL Mode = "data_url"
	// ModeFile saves the MP3 under the audio directory and returns its URL path.
	ModeFile Mode = "file"
)

// AudioURLPrefix is where saved files are served from.
const AudioURLPrefix = "/static/audio/"

var ttsRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "story_engine_tts_requests_total",
		Help: "Speech synthesis attempts by outcome.",
	},
	[]string{"status"},
)

// Config configures an Adapter.
type Config struct {
	Enabled  bool
	Mode     Mode
	AudioDir string
}

// Adapter wraps a Backend with the feature flag and output mode.
type Adapter struct {
	backend  Backend
	enabled  bool
	mode     Mode
	audioDir string
	log      *zap.Logger
}

// NewAdapter creates an adapter. A nil backend makes it unavailable.
func NewAdapter(backend Backend, cfg Config, log *zap.Logger) (*Adapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeDataURL
	}
	if mode != ModeDataURL && mode != ModeFile {
		return nil, fmt.Errorf("unknown tts mode %q", mode)
	}
	a := &Adapter{
		backend:  backend,
		enabled:  cfg.Enabled,
		mode:     mode,
		audioDir: cfg.AudioDir,
		log:      log,
	}
	if a.Available() && mode == ModeFile {
		if a.audioDir == "" {
			return nil, errors.New("audio dir is required in file mode")
		}
		if err := os.MkdirAll(a.audioDir, 0o755); err != nil {
			return nil, fmt.Errorf("create audio dir: %w", err)
		}
	}
	return a, nil
}

// Available reports whether synthesis is enabled and has a backend.
func (a *Adapter) Available() bool {
	return a != nil && a.enabled && a.backend != nil
}

// Mode returns the configured output mode.
func (a *Adapter) Mode() Mode { return a.mode }

// AudioDir returns the directory files are saved to in file mode.
func (a *Adapter) AudioDir() string { return a.audioDir }

// AudioURL synthesizes text and returns a data URL or file URL path. It
// returns "" when synthesis is unavailable or fails.
func (a *Adapter) AudioURL(ctx context.Context, text string) string {
	if !a.Available() {
		ttsRequestsTotal.WithLabelValues("disabled").Inc()
		return ""
	}
	url, err := a.synthesize(ctx, text)
	if err != nil {
		ttsRequestsTotal.WithLabelValues("error").Inc()
		a.log.Warn("speech synthesis failed, returning story without audio", zap.Error(err))
		return ""
	}
	ttsRequestsTotal.WithLabelValues("success").Inc()
	return url
}

func (a *Adapter) synthesize(ctx context.Context, text string) (string, error) {
	chunks := SplitText(text, MaxChunkChars)
	if len(chunks) == 0 {
		return "", errors.New("nothing to synthesize")
	}
	var audio bytes.Buffer
	for i, chunk := range chunks {
		b, err := a.backend.Synthesize(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		// MP3 streams are frame sequences, so chunks concatenate
		audio.Write(b)
	}
	if audio.Len() == 0 {
		return "", errors.New("backend returned no audio")
	}

	if a.mode == ModeFile {
		return a.save(audio.Bytes())
	}
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio.Bytes()), nil
}

func (a *Adapter) save(audio []byte) (string, error) {
	name := "story_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".mp3"
	if err := os.WriteFile(filepath.Join(a.audioDir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return AudioURLPrefix + name, nil
}
