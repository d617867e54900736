package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by NewFromEnv.
const (
	EnvProvider     = "SEMSCOUT_EMBEDDING_PROVIDER"
	EnvJinaAPIKey   = "JINA_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// DefaultCacheSize is the in-memory embedding cache size used when the
// caller does not choose one.
const DefaultCacheSize = 10000

// Config selects and configures a provider explicitly, bypassing the
// environment.
type Config struct {
	Provider  string
	APIKey    string
	CacheSize int
}

// New builds the named provider. Remote providers fail here, before any
// file I/O, when their credential is missing.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderJina:
		return NewJinaProvider(cfg.APIKey, cache)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
}

// NewFromEnv builds an embedder from the environment. An explicit
// SEMSCOUT_EMBEDDING_PROVIDER wins; otherwise the provider is inferred
// from whichever API key is present, falling back to the offline local
// provider when there is none.
func NewFromEnv() (Embedder, error) {
	name := os.Getenv(EnvProvider)
	if name == "" {
		name = detectFromKeys()
	}

	var key string
	switch strings.ToLower(name) {
	case ProviderJina:
		key = os.Getenv(EnvJinaAPIKey)
	case ProviderOpenAI:
		key = os.Getenv(EnvOpenAIAPIKey)
	}

	return New(Config{Provider: name, APIKey: key, CacheSize: DefaultCacheSize})
}

// DetectProvider reports which provider NewFromEnv would pick, without
// constructing it. The CLI prints it alongside version information.
func DetectProvider() string {
	if name := os.Getenv(EnvProvider); name != "" {
		return strings.ToLower(name)
	}
	return detectFromKeys()
}

func detectFromKeys() string {
	if os.Getenv(EnvJinaAPIKey) != "" {
		return ProviderJina
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
