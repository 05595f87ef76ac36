package config

// LoggingConfig controls the simulation logger
type LoggingConfig struct {
	// Level is the minimum printed level: debug, info, warning or error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warning warn error"`

	// Output is stdout, stderr or file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// FilePath is required when Output is file
	FilePath string `mapstructure:"file_path"`

	// Buffer is how many recent entries the in-memory ring keeps
	Buffer int `mapstructure:"buffer" validate:"min=1"`

	// Persist also stores entries in the database, deduplicated
	Persist bool `mapstructure:"persist"`
}
