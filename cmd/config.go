package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/sitecheck-bot/internal/application"
	"github.com/khanhnv2901/sitecheck-bot/internal/checker"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/access"
	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
)

const (
	defaultWorkers         = 4
	defaultSendRate        = 25
	defaultPollTimeoutSecs = 60
)

// BotConfig captures runtime configuration shared across commands.
type BotConfig struct {
	Token        string
	AllowedIDs   []int64
	ProbeTimeout time.Duration
	DNSTimeout   time.Duration
	WhoisTimeout time.Duration
	Nameservers  []string
	Screenshot   checker.ScreenshotOptions
	Fanout       bool
	Workers      int
	SendRate     int // Outbound API calls per second, 0 disables limiting
	PollTimeout  int // Long-poll timeout in seconds
	MetricsAddr  string
}

var botConfig = newBotConfig()

func newBotConfig() *BotConfig {
	return &BotConfig{
		ProbeTimeout: constants.ProbeTimeout,
		DNSTimeout:   constants.DNSTimeout,
		WhoisTimeout: constants.WhoisTimeout,
		Nameservers:  []string{},
		Screenshot:   checker.DefaultScreenshotOptions(),
		Workers:      defaultWorkers,
		SendRate:     defaultSendRate,
		PollTimeout:  defaultPollTimeoutSecs,
	}
}

// Settings converts the configuration for the application container.
func (c *BotConfig) Settings() application.Settings {
	return application.Settings{
		AllowedIDs:   c.AllowedIDs,
		ProbeTimeout: c.ProbeTimeout,
		DNSTimeout:   c.DNSTimeout,
		WhoisTimeout: c.WhoisTimeout,
		Nameservers:  c.Nameservers,
		Screenshot:   c.Screenshot,
		Fanout:       c.Fanout,
	}
}

// applyConfigDefaults merges config file and environment values into the runtime
// config when the user did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) error {
	if viper.IsSet("bot_token") {
		botConfig.Token = viper.GetString("bot_token")
	}

	if viper.IsSet("allowed_ids") {
		ids, err := access.ParseIDs(viper.GetStringSlice("allowed_ids"))
		if err != nil {
			return fmt.Errorf("invalid allowed_ids: %w", err)
		}
		botConfig.AllowedIDs = ids
	}

	applyDurationDefault("probe_timeout", &botConfig.ProbeTimeout)
	applyDurationDefault("dns_timeout", &botConfig.DNSTimeout)
	applyDurationDefault("whois_timeout", &botConfig.WhoisTimeout)
	applyDurationDefault("screenshot.settle_delay", &botConfig.Screenshot.SettleDelay)
	applyDurationDefault("screenshot.timeout", &botConfig.Screenshot.Timeout)

	if viper.IsSet("nameservers") {
		botConfig.Nameservers = viper.GetStringSlice("nameservers")
	}
	if viper.IsSet("screenshot.max_width") {
		botConfig.Screenshot.MaxWidth = viper.GetInt("screenshot.max_width")
	}
	if viper.IsSet("screenshot.window_width") {
		botConfig.Screenshot.WindowWidth = viper.GetInt("screenshot.window_width")
	}
	if viper.IsSet("screenshot.window_height") {
		botConfig.Screenshot.WindowHeight = viper.GetInt("screenshot.window_height")
	}
	if viper.IsSet("screenshot.chrome_path") {
		botConfig.Screenshot.ExecPath = viper.GetString("screenshot.chrome_path")
	}

	if viper.IsSet("fanout") {
		applyBoolDefault(rootCmd.PersistentFlags(), "fanout", viper.GetBool("fanout"), func(v bool) {
			botConfig.Fanout = v
		})
	}
	if viper.IsSet("workers") {
		applyIntDefault(runCmd.Flags(), "workers", viper.GetInt("workers"), func(v int) {
			botConfig.Workers = v
		})
	}
	if viper.IsSet("send_rate") {
		applyIntDefault(runCmd.Flags(), "send-rate", viper.GetInt("send_rate"), func(v int) {
			botConfig.SendRate = v
		})
	}
	if viper.IsSet("poll_timeout") {
		applyIntDefault(runCmd.Flags(), "poll-timeout", viper.GetInt("poll_timeout"), func(v int) {
			botConfig.PollTimeout = v
		})
	}
	if viper.IsSet("metrics_addr") {
		setStringFlagIfUnset(runCmd.Flags(), "metrics-addr", viper.GetString("metrics_addr"))
	}

	return nil
}

func applyDurationDefault(key string, target *time.Duration) {
	if !viper.IsSet(key) {
		return
	}
	if d := viper.GetDuration(key); d > 0 {
		*target = d
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
