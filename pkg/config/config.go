package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/willbeason/dou-features/pkg/dataset"
	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/pipeline"
)

const (
	Input       = "input"
	Workers     = "workers"
	BatchSize   = "batch_size"
	Strict      = "strict"
	Compression = "compression"
	Verbose     = "verbose"
	Encodings   = "encodings"

	// LegacyInput is the name older configs give the input path. It is read
	// only when Input is unset.
	LegacyInput = "training_set_csv_file_path"
)

const (
	configName = "doufeaturesrc"
	envPrefix  = "dou"
)

// Load reads settings into v from, in increasing priority: defaults, the
// config file, DOU_* environment variables and flags. An empty configFile
// searches the working directory and $HOME/.dou-features; not finding a file
// there is not an error.
func Load(v *viper.Viper, configFile string, flags *pflag.FlagSet) error {
	setupDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.dou-features")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	// Aliases only pick up config values already loaded.
	v.RegisterAlias("v", Verbose)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags == nil {
		return nil
	}
	// Flags are dashed, keys use underscores.
	var errBind error
	flags.VisitAll(func(f *pflag.Flag) {
		if errBind == nil {
			errBind = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		}
	})
	if errBind != nil {
		return fmt.Errorf("binding flags: %w", errBind)
	}
	return nil
}

func setupDefaults(v *viper.Viper) {
	defaultSettings := map[string]interface{}{
		Workers:     pipeline.DefaultWorkers,
		BatchSize:   pipeline.DefaultBatchSize,
		Strict:      false,
		Compression: dataset.DefaultCompression,
		Verbose:     false,
	}
	for key, value := range defaultSettings {
		v.SetDefault(key, value)
	}
}

// ConfigureLogging sets the logrus level from the verbose setting.
func ConfigureLogging(v *viper.Viper) {
	if v.GetBool(Verbose) {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Pipeline builds the conversion context described by v.
func Pipeline(v *viper.Viper) (*pipeline.Context, error) {
	encoder, err := features.NewEncoder(v.GetStringMapStringSlice(Encodings))
	if err != nil {
		return nil, fmt.Errorf("building encodings: %w", err)
	}

	policy := features.Tolerant
	if v.GetBool(Strict) {
		policy = features.Strict
	}

	input := v.GetString(Input)
	if input == "" {
		input = v.GetString(LegacyInput)
	}

	return &pipeline.Context{
		InputPath:   input,
		Encoder:     encoder,
		Policy:      policy,
		Workers:     v.GetInt(Workers),
		BatchSize:   v.GetInt(BatchSize),
		Compression: v.GetString(Compression),
	}, nil
}
