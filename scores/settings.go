package scores

import (
	"context"
	"fmt"
	"strconv"
)

// Settings are the player's audio preferences.
type Settings struct {
	MusicEnabled bool
	SoundEnabled bool
	MusicVolume  float64
	SoundVolume  float64
}

// DefaultSettings is returned for values that were never saved.
func DefaultSettings() Settings {
	return Settings{
		MusicEnabled: true,
		SoundEnabled: true,
		MusicVolume:  0.5,
		SoundVolume:  0.8,
	}
}

const (
	settingMusicEnabled = "music_enabled"
	settingSoundEnabled = "sound_enabled"
	settingMusicVolume  = "music_volume"
	settingSoundVolume  = "sound_volume"
)

// Settings loads the saved preferences merged over DefaultSettings.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	out := DefaultSettings()
	if err := s.ready(ctx); err != nil {
		return out, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, value FROM settings`)
	if err != nil {
		return out, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return out, fmt.Errorf("scan setting: %w", err)
		}
		switch name {
		case settingMusicEnabled:
			out.MusicEnabled = value == "1"
		case settingSoundEnabled:
			out.SoundEnabled = value == "1"
		case settingMusicVolume:
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				out.MusicVolume = v
			}
		case settingSoundVolume:
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				out.SoundVolume = v
			}
		}
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}

// SaveSettings stores every preference. Volumes are clamped to [0, 1].
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	values := map[string]string{
		settingMusicEnabled: boolValue(settings.MusicEnabled),
		settingSoundEnabled: boolValue(settings.SoundEnabled),
		settingMusicVolume:  strconv.FormatFloat(clamp01(settings.MusicVolume), 'f', -1, 64),
		settingSoundVolume:  strconv.FormatFloat(clamp01(settings.SoundVolume), 'f', -1, 64),
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save settings: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for name, value := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (name, value) VALUES (?, ?)
			 ON CONFLICT (name) DO UPDATE SET value = excluded.value`,
			name, value,
		); err != nil {
			return fmt.Errorf("save setting %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
