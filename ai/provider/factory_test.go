package provider

import (
	"testing"

	"github.com/proctorhq/proctor/config"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"local", ProviderLocal, false},
		{"ollama", ProviderLocal, false},
		{"localai", ProviderLocal, false},
		{"openrouter", ProviderOpenRouter, false},
		{"or", ProviderOpenRouter, false},
		{"auto", ProviderAuto, false},
		{"", ProviderAuto, false},
		{"bedrock", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProvider(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAutoSelection(t *testing.T) {
	t.Run("prefers local inference when enabled", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.LocalInference.Enabled = true
		cfg.LocalInference.BaseURL = "http://localhost:11434"
		cfg.LocalInference.Model = "llama3.2:3b"

		client := NewAIClient(cfg, nil, 0, "test", "", "")
		if _, ok := client.(*LocalClient); !ok {
			t.Errorf("expected *LocalClient, got %T", client)
		}
	})

	t.Run("falls back to openrouter", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenRouter.APIKey = "sk-or-test"

		client := NewAIClient(cfg, nil, 0, "test", "", "")
		if _, ok := client.(*LocalClient); ok {
			t.Error("expected OpenRouter client, got local")
		}
	})

	t.Run("unknown provider falls back to auto", func(t *testing.T) {
		cfg := &config.Config{}
		client := NewAIClientWithProvider(cfg, Provider("mystery"), ClientConfig{})
		if client == nil {
			t.Fatal("expected a client")
		}
	})
}

func TestGetAvailableProviders(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		cfg := &config.Config{}
		providers := GetAvailableProviders(cfg)
		if len(providers) != 0 {
			t.Errorf("expected no providers, got %v", providers)
		}
	})

	t.Run("both configured", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.LocalInference.Enabled = true
		cfg.OpenRouter.APIKey = "sk-or-test"

		providers := GetAvailableProviders(cfg)
		if len(providers) != 2 {
			t.Fatalf("expected 2 providers, got %v", providers)
		}
		if providers[0] != ProviderLocal || providers[1] != ProviderOpenRouter {
			t.Errorf("unexpected provider order: %v", providers)
		}
	})
}

func TestRetryPolicyFromConfig(t *testing.T) {
	t.Run("uses configured values", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Invocation.MaxAttempts = 5
		cfg.Invocation.BaseDelayMs = 500
		cfg.Invocation.MaxDelayMs = 10000

		p := retryPolicyFromConfig(cfg)
		if p.MaxAttempts != 5 {
			t.Errorf("expected 5 attempts, got %d", p.MaxAttempts)
		}
	})

	t.Run("zero values get defaults", func(t *testing.T) {
		cfg := &config.Config{}
		p := retryPolicyFromConfig(cfg)
		if p.MaxAttempts < 1 {
			t.Errorf("expected positive attempts, got %d", p.MaxAttempts)
		}
		if p.BaseDelay <= 0 {
			t.Error("expected positive base delay")
		}
	})
}
