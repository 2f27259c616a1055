package adaptive

import (
	"time"

	"github.com/abrplay/abrplay/key"
	"github.com/spf13/viper"
)

// Options tune an Engine.
type Options struct {
	// Threshold is the confirmation count; values below one mean DefaultThreshold.
	Threshold int
	// DisableAdaptive omits the auto entry from catalogs.
	DisableAdaptive bool
	// ProbeTimeout abandons a bandwidth probe that has not answered; zero waits forever.
	ProbeTimeout time.Duration
	// SampleInterval overrides the trend sampler period.
	SampleInterval time.Duration
	// Listeners receive engine notifications.
	Listeners []Listener
}

// OptionsFromConfig reads engine options from the loaded configuration.
func OptionsFromConfig() Options {
	return Options{
		Threshold:       viper.GetInt(key.AdaptiveThreshold),
		DisableAdaptive: viper.GetBool(key.AdaptiveDisable),
		ProbeTimeout:    viper.GetDuration(key.ProbeTimeout),
		SampleInterval:  SampleInterval,
	}
}
