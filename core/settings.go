package core

import (
	"github.com/mitchellh/mapstructure"
)

// Settings are the user toggles that decide whether and how repository operations run.
// They are passed explicitly to whatever makes that decision.
type Settings struct {
	// AutoSave backs a pack up after each change
	AutoSave bool `mapstructure:"auto-save" json:"autoSave" yaml:"autoSave"`
	// HighQualityExport uses the slower scaler and maximum PNG compression
	HighQualityExport bool `mapstructure:"high-quality-export" json:"highQualityExport" yaml:"highQualityExport"`
}

// DecodeSettings converts a raw settings map (as read from config, env or flags) into Settings.
// String values such as "true" are accepted.
func DecodeSettings(raw map[string]interface{}) (Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Settings{}, newValidationError("settings", err.Error())
	}
	return s, nil
}
