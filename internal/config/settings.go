// Package config persists the user's default download settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"kiosoodl/internal/model"
	"kiosoodl/internal/store"
)

const (
	appDirName       = "kiosoodl"
	settingsFileName = "settings.yaml"
	historyFileName  = "history.json"
)

const (
	DefaultMaxConcurrent = 2
	DefaultQuality       = model.QualityBest
	DefaultContainer     = "mp4"
)

// Settings are the persisted defaults applied to every submission
// unless overridden per invocation.
type Settings struct {
	DestDir       string `yaml:"destination,omitempty"`
	MaxConcurrent int    `yaml:"max_concurrent,omitempty"`
	Quality       string `yaml:"quality,omitempty"`
	Container     string `yaml:"container,omitempty"`
	Numbering     bool   `yaml:"numbering,omitempty"`
	AutoSubs      bool   `yaml:"auto_subs,omitempty"`
	ManualSubs    bool   `yaml:"manual_subs,omitempty"`
	SubLang       string `yaml:"sub_lang,omitempty"`
	Thumbnail     bool   `yaml:"thumbnail,omitempty"`
	Metadata      bool   `yaml:"metadata,omitempty"`
	SponsorStrip  bool   `yaml:"sponsor_strip,omitempty"`
	ArchivePath   string `yaml:"archive_file,omitempty"`
	CookiesPath   string `yaml:"cookies_file,omitempty"`
}

func Default() Settings {
	return Settings{
		MaxConcurrent: DefaultMaxConcurrent,
		Quality:       DefaultQuality,
		Container:     DefaultContainer,
		SubLang:       model.SubLangDefault,
	}
}

func normalize(raw Settings) Settings {
	norm := raw
	if norm.MaxConcurrent <= 0 {
		norm.MaxConcurrent = DefaultMaxConcurrent
	}
	if !model.IsKnownQuality(strings.ToLower(strings.TrimSpace(norm.Quality))) {
		norm.Quality = DefaultQuality
	} else {
		norm.Quality = strings.ToLower(strings.TrimSpace(norm.Quality))
	}
	if strings.TrimSpace(norm.Container) == "" {
		norm.Container = DefaultContainer
	}
	if strings.TrimSpace(norm.SubLang) == "" {
		norm.SubLang = model.SubLangDefault
	}
	return norm
}

// DataDir is where settings, history, and the session lock live.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, settingsFileName)
}

func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, historyFileName)
}

// Load reads settings, falling back to defaults when the file is
// missing. A malformed file is an error so a typo never silently
// reverts the user's configuration.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return normalize(s), nil
}

func Save(path string, s Settings) error {
	data, err := yaml.Marshal(normalize(s))
	if err != nil {
		return fmt.Errorf("marshal settings for %s: %w", path, err)
	}
	return store.WriteBytes(path, data)
}

// Options maps persisted settings onto a submission's download
// options.
func (s Settings) Options() model.DownloadOptions {
	return model.DownloadOptions{
		Quality:      s.Quality,
		Container:    s.Container,
		Numbering:    s.Numbering,
		AutoSubs:     s.AutoSubs,
		ManualSubs:   s.ManualSubs,
		SubLang:      s.SubLang,
		Thumbnail:    s.Thumbnail,
		Metadata:     s.Metadata,
		SponsorStrip: s.SponsorStrip,
		DestDir:      s.DestDir,
		ArchivePath:  s.ArchivePath,
		CookiesPath:  s.CookiesPath,
	}
}
