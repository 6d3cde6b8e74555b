package hostloop

// PumpConfig names the hidden server window.
type PumpConfig struct {
	ClassName string
	Title     string
}

func DefaultPumpConfig() PumpConfig {
	return PumpConfig{
		ClassName: "ddeurl.server",
		Title:     "ddeurl",
	}
}

func (c PumpConfig) withDefaults() PumpConfig {
	def := DefaultPumpConfig()
	if c.ClassName == "" {
		c.ClassName = def.ClassName
	}
	if c.Title == "" {
		c.Title = def.Title
	}
	return c
}
