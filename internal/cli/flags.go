package cli

import (
	"github.com/alvinbaena/safekey/internal/config"
	"github.com/alvinbaena/safekey/pkg/analyzer"
	"github.com/alvinbaena/safekey/pkg/hibp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"time"
)

// Flags registered here are only overrides, the values are read back through config.Load so
// the environment keeps working for every command.
func addBreachFlags(fs *pflag.FlagSet) {
	fs.String("range-url", hibp.DefaultBaseURL, "Base URL of the Pwned Passwords range API")
	fs.Duration("timeout", 3*time.Second, "Timeout of a breach lookup, retries included. At most 3s")
	fs.Bool("no-padding", false, "Do not ask the range API to pad its responses")
	fs.Int("min-length", 8, "Minimum length for the length check")
}

// newAnalyzer loads the configuration and builds the analysis pipeline. The returned client
// is nil when offline is set.
func newAnalyzer(fs *pflag.FlagSet, offline bool) (*analyzer.Analyzer, *hibp.Client, config.Config, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, nil, cfg, err
	}

	if offline {
		log.Warn().Msg("offline mode, passwords will not be checked against the Pwned Passwords corpus")
		return analyzer.New(cfg.Policy(), nil, analyzer.WithMaxLength(cfg.MaxLength)), nil, cfg, nil
	}

	client := hibp.NewClient(cfg.BreachOptions())
	log.Debug().Msgf("using range API at %s with a %s timeout", cfg.RangeApiURL, cfg.BreachTimeout)
	return analyzer.New(cfg.Policy(), client, analyzer.WithMaxLength(cfg.MaxLength)), client, cfg, nil
}
