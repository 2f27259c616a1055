// Package config owns the viper configuration: defaults, environment bindings and the TOML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abrplay/abrplay/constant"
	"github.com/abrplay/abrplay/filesystem"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys to environment variable suffixes.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads the config file if there is one.
func Setup() error {
	viper.SetConfigName(constant.Abrplay)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Abrplay)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return validate()
}

// validate catches values viper would otherwise coerce silently.
func validate() error {
	if raw := viper.GetString(key.ProbeTimeout); raw != "" {
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: invalid duration %q", key.ProbeTimeout, raw)
		}
	}

	return nil
}
