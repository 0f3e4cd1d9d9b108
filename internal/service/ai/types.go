package ai

// ModelPreset represents the model usage preset
type ModelPreset string

const PresetBalanced ModelPreset = "balanced"

// ModelConfig holds model configuration
type ModelConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

// GenerateOptions holds options for a single generation
type GenerateOptions struct {
	Model  string
	Preset ModelPreset
}

// GetPresetConfig returns the configuration for a preset. Unknown presets
// fall back to balanced. A 30-day calendar needs at least 8k output tokens.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetBalanced:
		return ModelConfig{
			Temperature:     0.4,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 8192,
		}
	default:
		return GetPresetConfig(PresetBalanced)
	}
}
