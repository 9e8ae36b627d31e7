package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	EnvVars EnvVars  `json:"env"`
	Prompts *Prompts `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
type EnvVars struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:jarvis.db"`

	// Local model runner (Ollama or anything speaking the OpenAI chat API).
	TextProvider string `env:"TEXT_PROVIDER" envDefault:"local"`
	ModelBaseURL string `env:"MODEL_BASE_URL" envDefault:"http://localhost:11434/v1"`
	ModelName    string `env:"MODEL_NAME" envDefault:"llama3"`
	ModelAPIKey  string `env:"MODEL_API_KEY" optional:"true"`

	// Anthropic is an alternative text provider for machines without a
	// local runner. Selected with TEXT_PROVIDER=anthropic.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" optional:"true"`

	// Speech endpoints. Both speak the OpenAI audio API; point them at a
	// local whisper/TTS server or at api.openai.com.
	SpeechBaseURL string `env:"SPEECH_BASE_URL" envDefault:"https://api.openai.com/v1"`
	SpeechAPIKey  string `env:"SPEECH_API_KEY" optional:"true"`
	SpeechVoice   string `env:"SPEECH_VOICE" envDefault:"onyx"`

	// Audio capture/playback can be disabled entirely for headless or
	// CI deployments; the text API keeps working.
	AudioEnabled bool `env:"AUDIO_ENABLED" envDefault:"true"`

	// Redact profanity from spoken/persisted assistant replies.
	CensorReplies bool `env:"CENSOR_REPLIES" envDefault:"true"`

	// UI shell theme name (see internal/ui).
	Theme string `env:"THEME" envDefault:"arc-reactor"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:8080"`
}

// LoadConfig parses environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}
	return &config, nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set
// and that configured endpoints are well-formed URLs.
func (c *Config) CheckConfigEnvFields() error {
	if err := checkFieldsRecursive(reflect.ValueOf(c.EnvVars)); err != nil {
		return err
	}

	for name, u := range map[string]string{
		"MODEL_BASE_URL":  c.EnvVars.ModelBaseURL,
		"SPEECH_BASE_URL": c.EnvVars.SpeechBaseURL,
	} {
		if !govalidator.IsRequestURL(u) {
			return fmt.Errorf("$%s is not a valid URL: %q", name, u)
		}
	}
	return nil
}

// Origins returns the allowed CORS origins as a slice.
func (c *Config) Origins() []string {
	parts := strings.Split(c.EnvVars.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if field.Kind() == reflect.Bool {
			// false is a legitimate setting, not a missing value
			continue
		}
		if isZeroValue(field) {
			return fmt.Errorf("$%s must be set", fieldType.Name)
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	return v.Interface() == reflect.Zero(v.Type()).Interface()
}
