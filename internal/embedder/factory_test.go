package embedder

import (
	"errors"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvJinaAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "")
}

func TestNewFromEnv(t *testing.T) {
	t.Run("explicit provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvProvider, "jina")
		t.Setenv(EnvJinaAPIKey, "key")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()
		if emb.Provider() != ProviderJina {
			t.Errorf("Provider() = %s, want %s", emb.Provider(), ProviderJina)
		}
	})

	t.Run("explicit provider without credential fails fast", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvProvider, "jina")

		_, err := NewFromEnv()
		if !errors.Is(err, ErrNoCredential) {
			t.Errorf("expected ErrNoCredential, got %v", err)
		}
	})

	t.Run("auto-detect jina key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvJinaAPIKey, "key")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()
		if emb.Provider() != ProviderJina {
			t.Errorf("Provider() = %s, want %s", emb.Provider(), ProviderJina)
		}
	})

	t.Run("auto-detect openai key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvOpenAIAPIKey, "key")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()
		if emb.Provider() != ProviderOpenAI {
			t.Errorf("Provider() = %s, want %s", emb.Provider(), ProviderOpenAI)
		}
	})

	t.Run("fallback to local", func(t *testing.T) {
		clearEnv(t)

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()
		if emb.Provider() != ProviderLocal {
			t.Errorf("Provider() = %s, want %s", emb.Provider(), ProviderLocal)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvProvider, "quantum")

		_, err := NewFromEnv()
		if !errors.Is(err, ErrUnsupportedModel) {
			t.Errorf("expected ErrUnsupportedModel, got %v", err)
		}
	})
}

func TestDetectProvider(t *testing.T) {
	clearEnv(t)
	if got := DetectProvider(); got != ProviderLocal {
		t.Errorf("DetectProvider() = %s, want %s", got, ProviderLocal)
	}

	t.Setenv(EnvOpenAIAPIKey, "key")
	if got := DetectProvider(); got != ProviderOpenAI {
		t.Errorf("DetectProvider() = %s, want %s", got, ProviderOpenAI)
	}

	t.Setenv(EnvProvider, "LOCAL")
	if got := DetectProvider(); got != ProviderLocal {
		t.Errorf("DetectProvider() = %s, want %s (explicit selection wins)", got, ProviderLocal)
	}
}
