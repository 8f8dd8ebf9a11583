package sqldb

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DefaultType = "pgsql"
	DefaultHost = "localhost"
	DefaultPort = 5432
)

// ConfSource lists where LoadConf reads from. Later sources override earlier ones:
// defaults, file, environment, flags.
type ConfSource struct {
	Path      string         // YAML or JSON file; empty skips it
	Name      string         // top-level entry to read from a multi-database file
	EnvPrefix string         // e.g. "PGCONN_"; empty skips the environment
	Flags     *pflag.FlagSet // only flags that were explicitly set are applied
}

var unmarshalConf = koanf.UnmarshalConf{Tag: "json"}

// flag names that differ from the json keys of Conf
var flagKeyAliases = map[string]string{
	"password": "pw",
	"dbname":   "db",
	"timezone": "tz",
}

var confKeys = map[string]struct{}{
	"type": {}, "host": {}, "port": {}, "user": {}, "pw": {}, "db": {}, "tz": {}, "dsn": {}, "debug": {},
}

func defaultsProvider() *confmap.Confmap {
	return confmap.Provider(map[string]any{
		"type": DefaultType,
		"host": DefaultHost,
		"port": DefaultPort,
	}, ".")
}

func envKeyFunc(prefix string) func(string) string {
	// PGCONN_MAIN__HOST -> main.host
	return func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "__", ".")
	}
}

// LoadConf builds a single Conf.
func LoadConf(src ConfSource) (*Conf, error) {
	k := koanf.New(".")

	if err := k.Load(defaultsProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if src.Path != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(src.Path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", src.Path, err)
		}
		if src.Name != "" {
			if !fk.Exists(src.Name) {
				return nil, fmt.Errorf("database %q not found in %s", src.Name, src.Path)
			}
			fk = fk.Cut(src.Name)
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", src.Path, err)
		}
	}

	if src.EnvPrefix != "" {
		if err := k.Load(env.Provider(src.EnvPrefix, ".", envKeyFunc(src.EnvPrefix)), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	if src.Flags != nil {
		flags := src.Flags
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if alias, ok := flagKeyAliases[key]; ok {
				key = alias
			}
			if _, ok := confKeys[key]; !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var conf Conf
	if err := k.UnmarshalWithConf("", &conf, unmarshalConf); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &conf, nil
}

// LoadConfs reads a multi-database file (name -> Conf). Environment variables
// address entries with a double underscore, e.g. PGCONN_MAIN__DEBUG=true.
func LoadConfs(path string, envPrefix string) (map[string]*Conf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if envPrefix != "" {
		keyFn := envKeyFunc(envPrefix)
		if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
			key := keyFn(s)
			if !strings.Contains(key, ".") {
				return "" // not addressed to an entry
			}
			return key
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}
	confs := make(map[string]*Conf)
	if err := k.UnmarshalWithConf("", &confs, unmarshalConf); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	for _, c := range confs {
		c.applyDefaults()
	}
	return confs, nil
}

func (c *Conf) applyDefaults() {
	if c.Type == "" {
		c.Type = DefaultType
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
}
