// Package config handles smplxtool/smplxbench configuration loading and
// management.
package config

// Config holds settings shared by the SMPL-family CLI tools.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds defaults for locating and interpreting model data.
type DataConfig struct {
	DataRoot       string `yaml:"data_root"`       // model/sequence data root; empty resolves via ResolveDataRoot
	DefaultVariant string `yaml:"default_variant"` // smpl, smplh, smplx or smplx-pca
	DefaultGender  string `yaml:"default_gender"`  // neutral, male or female
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			DataRoot:       "",
			DefaultVariant: "smplx",
			DefaultGender:  "neutral",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
