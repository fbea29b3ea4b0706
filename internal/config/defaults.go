package config

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Simulation.SecondsPerDay == 0 {
		cfg.Simulation.SecondsPerDay = 86400
	}
	if cfg.Simulation.MaxSteps == 0 {
		cfg.Simulation.MaxSteps = 10000
	}
	if cfg.Simulation.DefaultDays == 0 {
		cfg.Simulation.DefaultDays = 30
	}
}
