package config

import (
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		PollTimeoutSec int `mapstructure:"poll_timeout_sec"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	// .env рядом с бинарём может переопределить APP_* переменные
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Telegram.PollTimeoutSec == 0 {
		c.Telegram.PollTimeoutSec = 30
	}
	return c, nil
}
