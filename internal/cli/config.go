package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// configKeys maps "table.key" entries of the config file to the flag whose
// default they replace.
//
//	[crawl]
//	root = "1006450"
//	depth = 3
//	since = 2019
//	degree_cap = 10
//	policy = "abort"
//	interval = "340ms"
//
//	[layout]
//	seed = 42
//	symmetry = "directed"
//	spread = 4
//	frames = 1000
//
//	[window]
//	width = 1800
//	height = 900
//	fps = 30
//
//	[cache]
//	disabled = false
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[store]
//	path = "/data/graph.json"
//	mongo_uri = "mongodb://localhost:27017"
//	name = "default"
//
//	[metrics]
//	addr = ":9090"
var configKeys = map[string]string{
	"crawl.root":       "root",
	"crawl.depth":      "depth",
	"crawl.since":      "since",
	"crawl.degree_cap": "degree-cap",
	"crawl.policy":     "policy",
	"crawl.interval":   "interval",

	"layout.seed":     "seed",
	"layout.symmetry": "symmetry",
	"layout.spread":   "spread",
	"layout.frames":   "frames",

	"window.width":  "width",
	"window.height": "height",
	"window.fps":    "fps",

	"cache.disabled":   "no-cache",
	"cache.ttl":        "cache-ttl",
	"cache.redis_addr": "redis-addr",

	"store.path":      "store",
	"store.mongo_uri": "mongo-uri",
	"store.name":      "store-name",

	"metrics.addr": "metrics-addr",
}

// applyConfigFile reads the config file and uses its values for every flag
// of cmd that was not set on the command line. A missing default config file
// is fine; a missing --config file is an error.
func (c *CLI) applyConfigFile(cmd *cobra.Command) error {
	path := c.global.configPath
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return nil
		}
	}

	values, err := readConfig(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	c.Logger.Debug("loaded config", "path", path, "keys", len(values))

	return applyConfig(cmd.Flags(), values, c.Logger.Warn)
}

// readConfig decodes a TOML file into "table.key" → value.
func readConfig(path string) (map[string]any, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, err
	}
	values := make(map[string]any)
	for table, v := range raw {
		entries, ok := v.(map[string]any)
		if !ok {
			values[table] = v
			continue
		}
		for key, val := range entries {
			values[table+"."+key] = val
		}
	}
	return values, nil
}

// applyConfig sets unchanged flags from values. Keys the running command has
// no flag for are ignored; unknown keys are reported through warn.
func applyConfig(flags *pflag.FlagSet, values map[string]any, warn func(msg any, keyvals ...any)) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name, known := configKeys[key]
		if !known {
			warn("unknown config key", "key", key)
			continue
		}
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(configString(values[key])); err != nil {
			return fmt.Errorf("config key %s: %w", key, err)
		}
	}
	return nil
}

func configString(v any) string {
	switch v := v.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
