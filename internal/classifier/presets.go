package classifier

// ModelPreset represents the model usage preset
type ModelPreset string

const (
	PresetPrecise  ModelPreset = "precise"
	PresetBalanced ModelPreset = "balanced"
)

// ModelConfig holds Gemini generation settings.
type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string
}

// OpenAIConfig holds OpenAI-specific configuration
type OpenAIConfig struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata describes which provider answered.
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds options for one generation call.
type GenerateOptions struct {
	Model    string
	JSONMode bool
}

// GetPresetConfig returns the configuration for a preset
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetPrecise:
		return ModelConfig{
			Temperature:     0.0,
			TopP:            0.9,
			TopK:            1,
			MaxOutputTokens: 64,
		}
	default:
		return ModelConfig{
			Temperature:     0.1,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 256,
		}
	}
}

// GetOpenAIPresetConfig returns OpenAI configuration for a preset
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIConfig {
	switch preset {
	case PresetPrecise:
		return OpenAIConfig{
			Temperature: 0.0,
			MaxTokens:   64,
			TopP:        0.9,
		}
	default:
		return OpenAIConfig{
			Temperature: 0.1,
			MaxTokens:   256,
			TopP:        0.95,
		}
	}
}
