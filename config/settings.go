package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings    `json:"server"`
	Corpus    CorpusSettings    `json:"corpus"`
	Storage   StorageSettings   `json:"storage"`
	Translate TranslateSettings `json:"translate"`
	Playback  PlaybackSettings  `json:"playback"`
	Log       LogConfig         `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CorpusSettings locates the static subtitle corpus and the local media files.
type CorpusSettings struct {
	Path      string `json:"path"`      // JSON corpus file
	VideosDir string `json:"videosDir"` // local fallback media, {videosDir}/{year}.mp4
}

type StorageSettings struct {
	Directory string `json:"directory"`
}

type TranslateSettings struct {
	Endpoint       string `json:"endpoint"`
	SourceLang     string `json:"sourceLang"`
	TargetLang     string `json:"targetLang"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type PlaybackSettings struct {
	SyncIntervalMs int `json:"syncIntervalMs"`
}

// LogConfig configures file logging with rotation.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first run.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 8799},
		Corpus: CorpusSettings{
			Path:      filepath.Join("data", "corpus.json"),
			VideosDir: "videos",
		},
		Storage: StorageSettings{Directory: "cache"},
		Translate: TranslateSettings{
			Endpoint:       "https://translate.googleapis.com/translate_a/single",
			SourceLang:     "en",
			TargetLang:     "zh-CN",
			TimeoutSeconds: 15,
		},
		Playback: PlaybackSettings{SyncIntervalMs: 200},
		Log: LogConfig{
			File:       filepath.Join("cache", "wwdc-search.log"),
			MaxSize:    20,
			MaxAge:     14,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// Manager loads and saves the settings file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}
	applyFallbacks(&s)
	return s, nil
}

// Save writes settings atomically (tmp file + rename).
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}

// applyFallbacks fills fields older config files may be missing.
func applyFallbacks(s *Settings) {
	defaults := DefaultSettings()
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if s.Server.Host == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Corpus.Path == "" {
		s.Corpus.Path = defaults.Corpus.Path
	}
	if s.Corpus.VideosDir == "" {
		s.Corpus.VideosDir = defaults.Corpus.VideosDir
	}
	if s.Storage.Directory == "" {
		s.Storage.Directory = defaults.Storage.Directory
	}
	if s.Translate.Endpoint == "" {
		s.Translate.Endpoint = defaults.Translate.Endpoint
	}
	if s.Translate.SourceLang == "" {
		s.Translate.SourceLang = defaults.Translate.SourceLang
	}
	if s.Translate.TargetLang == "" {
		s.Translate.TargetLang = defaults.Translate.TargetLang
	}
	if s.Translate.TimeoutSeconds <= 0 {
		s.Translate.TimeoutSeconds = defaults.Translate.TimeoutSeconds
	}
	if s.Playback.SyncIntervalMs <= 0 {
		s.Playback.SyncIntervalMs = defaults.Playback.SyncIntervalMs
	}
}
