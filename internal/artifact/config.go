package artifact

import "time"

// Config contains configuration options that control where artifacts
// are stored, and how long they're kept for.
type Config struct {
	// The directory downloaded artifacts are written to. The directory
	// is flat; artifacts are never nested.
	Dir string `yaml:"dir" env:"DOWNLOAD_DIR" env-default:"downloads/"`

	// Artifacts whose modtime is older than this are removed by the
	// janitor on its next sweep.
	Retention time.Duration `yaml:"retention" env:"ARTIFACT_RETENTION" env-default:"3600s"`

	// How often the janitor sweeps the directory. A sweep is always
	// performed when the janitor starts, irrespective of this value.
	SweepInterval time.Duration `yaml:"sweep_interval" env:"JANITOR_SWEEP_INTERVAL" env-default:"1800s"`
}
