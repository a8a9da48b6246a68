package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/go-drift/reactive/pkg/vars"
)

// Option keys recognized in driver option files and the environment
// (prefixed REACTIVE_, e.g. REACTIVE_MAX_QUEUED_WRITES_PER_VAR).
const (
	keyMaxQueuedWrites = "max_queued_writes_per_var"
	keyReentrantPolicy = "reentrant_write_policy"
	keyWeakUpgrade     = "weak_upgrade_on_read"
)

// LoadOptions reads scheduler options from the file at path, with
// environment overrides and defaults matching [vars.DefaultOptions].
// An empty path loads environment and defaults only.
func LoadOptions(path string) (vars.Options, error) {
	v := viper.New()
	v.SetDefault(keyMaxQueuedWrites, 0)
	v.SetDefault(keyReentrantPolicy, "defer")
	v.SetDefault(keyWeakUpgrade, "upgrade")
	v.SetEnvPrefix("REACTIVE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return vars.DefaultOptions(), fmt.Errorf("reading driver options: %w", err)
		}
	}

	opts := vars.DefaultOptions()
	opts.MaxQueuedWritesPerVar = v.GetInt(keyMaxQueuedWrites)
	if opts.MaxQueuedWritesPerVar < 0 {
		return vars.DefaultOptions(), fmt.Errorf("%s must not be negative", keyMaxQueuedWrites)
	}

	switch policy := v.GetString(keyReentrantPolicy); policy {
	case "defer":
		opts.ReentrantWrite = vars.ReentrantDefer
	case "panic":
		opts.ReentrantWrite = vars.ReentrantPanic
	default:
		return vars.DefaultOptions(), fmt.Errorf("unknown %s %q", keyReentrantPolicy, policy)
	}

	switch mode := v.GetString(keyWeakUpgrade); mode {
	case "upgrade":
		opts.WeakUpgradeOnRead = vars.WeakUpgrade
	case "skip":
		opts.WeakUpgradeOnRead = vars.WeakSkip
	default:
		return vars.DefaultOptions(), fmt.Errorf("unknown %s %q", keyWeakUpgrade, mode)
	}

	return opts, nil
}
