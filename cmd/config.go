package cmd

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fixturelab/jiranon/src/utils"
)

var allowedGlobalConfigKeys = mapset.NewThreadUnsafeSet[string](
	"log-level", "yes",
)

var allowedAnonymizeConfigKeys = mapset.NewThreadUnsafeSet[string](
	"input-dir", "output-dir", "resume", "start-clean",
)

// Define allowed nested sections
var allowedConfigSections = map[string]mapset.Set[string]{
	"anonymize": allowedAnonymizeConfigKeys,
}

// validateConfigKeys rejects config files carrying keys no command
// understands, so typos surface immediately instead of being silently
// ignored.
func validateConfigKeys(v *viper.Viper) error {
	var invalidKeys []string
	for _, key := range v.AllKeys() {
		if allowedGlobalConfigKeys.Contains(key) {
			continue
		}
		section, rest, found := strings.Cut(key, ".")
		if found {
			if allowed, ok := allowedConfigSections[section]; ok && allowed.Contains(rest) {
				continue
			}
		}
		invalidKeys = append(invalidKeys, key)
	}
	if len(invalidKeys) > 0 {
		sort.Strings(invalidKeys)
		return fmt.Errorf("unknown configuration keys: %s", strings.Join(invalidKeys, ", "))
	}
	return nil
}

// bindFlagsFromConfig fills flags the user did not set on the command line
// from the config file, preferring the command's own section over global
// keys. CLI flags always win over config values.
func bindFlagsFromConfig(cmd *cobra.Command, section string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		key := section + "." + f.Name
		if !viper.IsSet(key) {
			key = f.Name
			if !viper.IsSet(key) {
				return
			}
		}
		if err := f.Value.Set(viper.GetString(key)); err != nil {
			utils.ErrExit("invalid config value for %q: %s", key, err)
		}
	})
}
