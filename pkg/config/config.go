// Package config holds the tuning parameters for the map-matching
// pipeline (§6 of the specification) plus a handful of ambient knobs the
// pipeline needs but the spec's parameter table doesn't name (beam width,
// candidate oversampling, log level).
//
// Configuration can come from, in increasing precedence:
//  1. DefaultConfig()
//  2. a YAML file via LoadFromFile
//  3. environment variables via LoadFromEnv
//
// This mirrors the three-way configuration story (defaults / YAML / env)
// used elsewhere in the corpus this module grew out of.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
)

// Config is the full set of tuning parameters for one Match call.
type Config struct {
	// DistanceScale is the decay constant (meters) of the spatial
	// likelihood P_dist = exp(-perp_distance/DistanceScale).
	DistanceScale float64 `yaml:"distance_scale"`

	// HeadingScale is the decay constant (degrees) of the heading
	// likelihood.
	HeadingScale float64 `yaml:"heading_scale"`

	// CutoffDistance is the hard gate (meters) on candidate inclusion.
	CutoffDistance float64 `yaml:"cutoff_distance"`

	// HeadingCutoff is the hard gate (degrees) on heading likelihood;
	// above this, P_head is forced to zero.
	HeadingCutoff float64 `yaml:"heading_cutoff"`

	// ProbabilityThreshold is the minimum per-element aggregate
	// probability for non-forced inclusion in a path (§4.7).
	ProbabilityThreshold float64 `yaml:"probability_threshold"`

	// MaxCandidates caps the number of candidate links kept per fix.
	MaxCandidates int `yaml:"max_candidates"`

	// ResamplingDistance is the arc-length stride (meters) used to
	// downsample fixes for path construction only. Zero disables
	// resampling.
	ResamplingDistance float64 `yaml:"resampling_distance"`

	// BeamWidth bounds the best-first search frontier kept alive during
	// bidirectional path construction (§4.7 "bounded beam width").
	// Not named in spec.md's parameter table; needed to make the beam
	// search concrete.
	BeamWidth int `yaml:"beam_width"`

	// CandidateOversample is the multiple of MaxCandidates queried from
	// the spatial index before true-distance refinement and truncation
	// (§4.5 step 2, "a small multiple of k").
	CandidateOversample int `yaml:"candidate_oversample"`

	// LogLevel controls pkg/logx verbosity ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the defaults from §6's parameter table.
func DefaultConfig() Config {
	return Config{
		DistanceScale:        10.0,
		HeadingScale:         2.0,
		CutoffDistance:       50.0,
		HeadingCutoff:        5.0,
		ProbabilityThreshold: 0.25,
		MaxCandidates:        3,
		ResamplingDistance:   0,
		BeamWidth:            8,
		CandidateOversample:  2,
		LogLevel:             "info",
	}
}

// LoadFromFile reads and merges a YAML config file on top of DefaultConfig.
func LoadFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv merges TPLIB_* environment variables on top of cfg.
//
// Recognized variables: TPLIB_DISTANCE_SCALE, TPLIB_HEADING_SCALE,
// TPLIB_CUTOFF_DISTANCE, TPLIB_HEADING_CUTOFF, TPLIB_PROBABILITY_THRESHOLD,
// TPLIB_MAX_CANDIDATES, TPLIB_RESAMPLING_DISTANCE, TPLIB_BEAM_WIDTH,
// TPLIB_CANDIDATE_OVERSAMPLE, TPLIB_LOG_LEVEL.
func LoadFromEnv(cfg Config) Config {
	if v, ok := getFloat("TPLIB_DISTANCE_SCALE"); ok {
		cfg.DistanceScale = v
	}
	if v, ok := getFloat("TPLIB_HEADING_SCALE"); ok {
		cfg.HeadingScale = v
	}
	if v, ok := getFloat("TPLIB_CUTOFF_DISTANCE"); ok {
		cfg.CutoffDistance = v
	}
	if v, ok := getFloat("TPLIB_HEADING_CUTOFF"); ok {
		cfg.HeadingCutoff = v
	}
	if v, ok := getFloat("TPLIB_PROBABILITY_THRESHOLD"); ok {
		cfg.ProbabilityThreshold = v
	}
	if v, ok := getInt("TPLIB_MAX_CANDIDATES"); ok {
		cfg.MaxCandidates = v
	}
	if v, ok := getFloat("TPLIB_RESAMPLING_DISTANCE"); ok {
		cfg.ResamplingDistance = v
	}
	if v, ok := getInt("TPLIB_BEAM_WIDTH"); ok {
		cfg.BeamWidth = v
	}
	if v, ok := getInt("TPLIB_CANDIDATE_OVERSAMPLE"); ok {
		cfg.CandidateOversample = v
	}
	if v := os.Getenv("TPLIB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func getFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks the config's values are within sane ranges.
func Validate(cfg Config) error {
	if cfg.DistanceScale <= 0 {
		return errs.NewValidation("distance_scale", "must be positive", nil)
	}
	if cfg.HeadingScale <= 0 {
		return errs.NewValidation("heading_scale", "must be positive", nil)
	}
	if cfg.CutoffDistance <= 0 {
		return errs.NewValidation("cutoff_distance", "must be positive", nil)
	}
	if cfg.HeadingCutoff < 0 || cfg.HeadingCutoff > 180 {
		return errs.NewValidation("heading_cutoff", "must be in [0,180]", nil)
	}
	if cfg.ProbabilityThreshold < 0 || cfg.ProbabilityThreshold > 1 {
		return errs.NewValidation("probability_threshold", "must be in [0,1]", nil)
	}
	if cfg.MaxCandidates < 1 {
		return errs.NewValidation("max_candidates", "must be >= 1", nil)
	}
	if cfg.ResamplingDistance < 0 {
		return errs.NewValidation("resampling_distance", "must be >= 0", nil)
	}
	if cfg.BeamWidth < 1 {
		return errs.NewValidation("beam_width", "must be >= 1", nil)
	}
	if cfg.CandidateOversample < 1 {
		return errs.NewValidation("candidate_oversample", "must be >= 1", nil)
	}
	return nil
}

// Snapshot converts cfg into the metadata map stored on TrainPath (§3:
// "metadata snapshot of the tuning parameters actually used").
func Snapshot(cfg Config) map[string]float64 {
	return map[string]float64{
		"distance_scale":        cfg.DistanceScale,
		"heading_scale":         cfg.HeadingScale,
		"cutoff_distance":       cfg.CutoffDistance,
		"heading_cutoff":        cfg.HeadingCutoff,
		"probability_threshold": cfg.ProbabilityThreshold,
		"max_candidates":        float64(cfg.MaxCandidates),
		"resampling_distance":   cfg.ResamplingDistance,
		"beam_width":            float64(cfg.BeamWidth),
		"candidate_oversample":  float64(cfg.CandidateOversample),
	}
}
