package config

import "time"

// ServerConfig holds the listeners started by bizsimd
type ServerConfig struct {
	// GRPCAddress serves the read-only dashboard service
	GRPCAddress string `mapstructure:"grpc_address" validate:"required"`

	// HTTPAddress serves the live event feed and the metrics endpoint
	HTTPAddress string `mapstructure:"http_address" validate:"required"`

	// PIDFile guards against two servers sharing one database
	PIDFile string `mapstructure:"pid_file"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
