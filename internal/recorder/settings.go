package recorder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prsauer/wow-recorder/internal/engine"
	"github.com/prsauer/wow-recorder/internal/logging"
)

// applyRecordingSettings pushes one configuration pass into the engine
// settings store and returns the base canvas size the engine will
// composite at. The requested output resolution is matched against the
// engine's supported sets for both the base and output parameters.
func applyRecordingSettings(eng engine.Engine, opts Options) (engine.Size, error) {
	target, err := ParseResolution(opts.OutputResolution)
	if err != nil {
		return engine.Size{}, err
	}

	baseAvailable, err := engine.AvailableValues(eng, engine.CategoryVideo, engine.SubCategoryUntitled, "Base")
	if err != nil {
		return engine.Size{}, fmt.Errorf("query base resolutions: %w", err)
	}
	base, err := ClosestResolution(baseAvailable, target)
	if err != nil {
		return engine.Size{}, fmt.Errorf("base resolution: %w", err)
	}

	outputAvailable, err := engine.AvailableValues(eng, engine.CategoryVideo, engine.SubCategoryUntitled, "Output")
	if err != nil {
		return engine.Size{}, fmt.Errorf("query output resolutions: %w", err)
	}
	output, err := ClosestResolution(outputAvailable, target)
	if err != nil {
		return engine.Size{}, fmt.Errorf("output resolution: %w", err)
	}

	encoder := opts.Encoder
	if encoder == "" || encoder == AutoEncoder {
		encoder, err = pickAutoEncoder(eng)
		if err != nil {
			return engine.Size{}, err
		}
	}

	logging.InfoLogger.Printf("Applying settings: base %s, output %s, %d fps, encoder %s", base, output, opts.FrameRate, encoder)

	outputSettings := []struct {
		name  string
		value interface{}
	}{
		{"Mode", "Advanced"},
		{"RecFilePath", opts.StorageDir},
		{"RecFormat", "mp4"},
		{"RecEncoder", encoder},
		{"VBitrate", opts.BitrateKbps},
	}
	for _, setting := range outputSettings {
		if err := engine.SetSetting(eng, engine.CategoryOutput, engine.SubCategoryRecording, setting.name, setting.value); err != nil {
			return engine.Size{}, err
		}
	}

	videoSettings := []struct {
		name  string
		value interface{}
	}{
		{"Base", base},
		{"Output", output},
		{"FPSCommon", strconv.Itoa(opts.FrameRate)},
	}
	for _, setting := range videoSettings {
		if err := engine.SetSetting(eng, engine.CategoryVideo, engine.SubCategoryUntitled, setting.name, setting.value); err != nil {
			return engine.Size{}, err
		}
	}

	return ParseResolution(base)
}

// pickAutoEncoder resolves the "auto" encoder choice: the last entry of
// whatever order the engine enumerates in.
func pickAutoEncoder(eng engine.Engine) (string, error) {
	encoders, err := engine.AvailableValues(eng, engine.CategoryOutput, engine.SubCategoryRecording, "RecEncoder")
	if err != nil {
		return "", fmt.Errorf("query encoders: %w", err)
	}
	if len(encoders) == 0 {
		return "", errors.New("engine reports no encoders")
	}
	pick := encoders[len(encoders)-1]
	logging.Trace("Auto encoder pick: %s (of %d)", pick, len(encoders))
	return pick, nil
}
