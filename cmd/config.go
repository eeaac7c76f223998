package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/fairq/fairq/pool"
	"github.com/fairq/fairq/types"
)

// Config holds the consolidated settings of the fairq server.
type Config struct {
	pool.Config

	ProvisionDelay types.NullDuration `json:"provisionDelay" envconfig:"FAIRQ_PROVISION_DELAY"`
}

// NewConfig returns a config with all default but unset values.
func NewConfig() Config {
	return Config{
		Config: pool.NewConfig(),
	}
}

// Apply overwrites the receiver's fields with the valid fields of cfg.
func (c Config) Apply(cfg Config) Config {
	c.Config = c.Config.Apply(cfg.Config)
	if cfg.ProvisionDelay.Valid {
		c.ProvisionDelay = cfg.ProvisionDelay
	}
	return c
}

// Validate checks the config for impossible values.
func (c Config) Validate() []error {
	errList := c.Config.Validate()
	if c.ProvisionDelay.Valid && c.ProvisionDelay.Duration < 0 {
		errList = append(errList, fmt.Errorf("provision delay should be positive"))
	}
	return errList
}

// Gets configuration from CLI flags.
func getConfig(flags *pflag.FlagSet) Config {
	return Config{
		Config: pool.Config{
			Capacity: getNullInt64(flags, "capacity"),
			Timeout:  getNullDuration(flags, "timeout"),
		},
		ProvisionDelay: getNullDuration(flags, "provision-delay"),
	}
}

// Reads the configuration file from disk, if it exists.
func readDiskConfig(fs afero.Fs) (Config, error) {
	realConfigFilePath := configFilePath
	if realConfigFilePath == "" {
		realConfigFilePath = defaultConfigFilePath
	}

	data, err := afero.ReadFile(fs, realConfigFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var conf Config
	err = json.Unmarshal(data, &conf)
	return conf, err
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}

// Assemble the final consolidated config, in order of precedence: defaults,
// config file, environment variables, CLI flags.
func getConsolidatedConfig(fs afero.Fs, cliConf Config, env map[string]string) (Config, error) {
	fileConf, err := readDiskConfig(fs)
	if err != nil {
		return Config{}, err
	}

	envConf := Config{}
	if err := envconfig.Process("", &envConf, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return Config{}, err
	}

	return NewConfig().Apply(fileConf).Apply(envConf).Apply(cliConf), nil
}

func validateConfig(conf Config) error {
	errList := conf.Validate()
	if len(errList) == 0 {
		return nil
	}

	errMsgParts := make([]string, 0, len(errList))
	for _, err := range errList {
		errMsgParts = append(errMsgParts, fmt.Sprintf(" - %s", err.Error()))
	}

	return fmt.Errorf("there were problems with the specified configuration:\n%s", strings.Join(errMsgParts, "\n"))
}
