// Package preferences keeps the toolchain preference and the session (UI
// state) preference as two independent records on one PreferenceStore.
//
// Each record only reads and writes its own keys; the store merges on
// write, so saving one record never clobbers the other.
package preferences

import (
	"github.com/user/framepick/pkg/ports"
)

// Store keys. The legacy keys come from older config.json files and are
// honoured on read only.
const (
	KeyToolchainBinDir = "toolchain.bin_dir"
	KeySessionVideo    = "session.last_video"
	KeySessionOutput   = "session.output_dir"

	legacyKeyBinDir    = "ffmpeg_bin_path"
	legacyKeyVideo     = "video_path"
	legacyKeyOutputDir = "output_dir"
)

// Toolchain is the persisted, user-confirmed directory containing both
// executables.
type Toolchain struct {
	BinDir string
}

// Session is the remembered UI state of the last run.
type Session struct {
	LastVideo string
	OutputDir string
}

// LoadToolchain reads the toolchain record. A missing record yields the
// zero value and no error.
func LoadToolchain(store ports.PreferenceStore) (Toolchain, error) {
	values, err := store.Load()
	if err != nil {
		return Toolchain{}, err
	}
	return Toolchain{BinDir: first(values, KeyToolchainBinDir, legacyKeyBinDir)}, nil
}

// SaveToolchain overwrites the toolchain record.
func SaveToolchain(store ports.PreferenceStore, t Toolchain) error {
	return store.Merge(map[string]string{KeyToolchainBinDir: t.BinDir})
}

// LoadSession reads the session record. Missing fields stay empty.
func LoadSession(store ports.PreferenceStore) (Session, error) {
	values, err := store.Load()
	if err != nil {
		return Session{}, err
	}
	return Session{
		LastVideo: first(values, KeySessionVideo, legacyKeyVideo),
		OutputDir: first(values, KeySessionOutput, legacyKeyOutputDir),
	}, nil
}

// SaveSession writes the non-empty fields of s.
func SaveSession(store ports.PreferenceStore, s Session) error {
	values := make(map[string]string)
	if s.LastVideo != "" {
		values[KeySessionVideo] = s.LastVideo
	}
	if s.OutputDir != "" {
		values[KeySessionOutput] = s.OutputDir
	}
	if len(values) == 0 {
		return nil
	}
	return store.Merge(values)
}

func first(values map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := values[k]; v != "" {
			return v
		}
	}
	return ""
}
