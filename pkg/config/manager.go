package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every environment override, e.g. REFLOW_LOG_LEVEL.
const envPrefix = "REFLOW_"

// Manager loads a Config from layered providers: a struct provider seeded
// from Default(), then an environment-variable provider overlay, koanf-merged
// in that order so later providers win.
type Manager struct {
	k *koanf.Koanf
}

// NewManager constructs a Manager with koanf's "." key-path delimiter.
func NewManager() *Manager {
	return &Manager{k: koanf.New(".")}
}

// Load merges the default provider and the environment provider and returns
// the resolved, validated Config.
func (m *Manager) Load() (*Config, error) {
	defaults := Default()
	if err := m.k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, err
	}

	// Only the top-level scalar settings are overridable by environment;
	// Caps is deliberately not, since its field names already contain
	// underscores and would collide with koanf's "." path delimiter.
	envProvider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(k, envPrefix)), v
		},
	})
	if err := m.k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := m.k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the value at key from the currently loaded koanf tree,
// bypassing the typed Config — used by callers that only need one setting.
func (m *Manager) Get(key string) any {
	return m.k.Get(key)
}
