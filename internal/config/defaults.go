package config

const (
	defaultProfilesDir     = "profiles"
	defaultOutputDir       = "organized-profiles"
	defaultChoicesFile     = ".profile_choices.json"
	defaultPreferencesFile = ".profile_preferences.json"
	defaultLockFile        = ".profileorg.lock"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	catalogEnvVar          = "PROFILEORG_CATALOG"
)

var defaultExtensions = []string{".icc", ".icm", ".emy2"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProfilesDir: defaultProfilesDir,
		},
		Organize: Organize{
			UpdateDescriptions: true,
			Profiles:           true,
			PDFs:               true,
			Extensions:         append([]string(nil), defaultExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
