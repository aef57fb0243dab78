package progression

// Config is the single source of truth for progression thresholds and
// session sizing. Both stage selection and the progression display derive
// from it, so the two can never drift apart.
type Config struct {
	// Words completed before medium words start mixing in
	EasyThreshold int
	// Words completed before the easy/medium mix gives way to medium/hard
	MediumThreshold int
	// Words completed before all difficulties are in play
	HardThreshold int
	// Target batch size for a generated session
	WordsPerSession int
	// Percent of each difficulty bucket reserved for forgotten-word review
	ReviewPercent int
}

// DefaultConfig returns the default progression configuration
func DefaultConfig() Config {
	return Config{
		EasyThreshold:   50,
		MediumThreshold: 100,
		HardThreshold:   150,
		WordsPerSession: 20,
		ReviewPercent:   30,
	}
}
