package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	apperrors "github.com/agbru/parfor/internal/errors"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout changes.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the profile file name in the home directory.
	DefaultProfileFileName = ".parfor_calibration.json"
	// DefaultMaxAge is how long a profile is trusted before it is ignored.
	DefaultMaxAge = 30 * 24 * time.Hour
)

// Point is one measured thread count of a sweep.
type Point struct {
	Threads int     `json:"threads"`
	Seconds float64 `json:"seconds"`
}

// CalibrationProfile records the best thread count found on this machine,
// together with the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	Workload        string  `json:"workload"`
	Size            int     `json:"size"`
	OptimalThreads  int     `json:"optimal_threads"`
	CalibrationTime string  `json:"calibration_time"`
	Points          []Point `json:"points,omitempty"`
}

// NewProfile returns an empty profile stamped with the current hardware.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// SaveProfile writes the profile as indented JSON. The file is replaced
// atomically.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return apperrors.WrapError(err, "encoding calibration profile")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".parfor-profile-*")
	if err != nil {
		return apperrors.WrapError(err, "saving calibration profile")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return apperrors.WrapError(err, "saving calibration profile")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.WrapError(err, "saving calibration profile")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.WrapError(err, "saving calibration profile")
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path. When it cannot be read a
// fresh profile is returned and loaded is false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// LoadUsable returns the profile at path when it matches this machine and
// is younger than maxAge, or nil.
func LoadUsable(path string, maxAge time.Duration) *CalibrationProfile {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.IsStale(maxAge) || p.OptimalThreads <= 0 {
		return nil
	}
	return p
}

// IsValid reports whether the profile was produced by this profile version
// on hardware identical to the current machine.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge. A nil profile is
// always stale.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d: %d threads optimal for %s (size %d) on %d CPUs %s/%s, calibrated %s",
		p.ProfileVersion, p.OptimalThreads, p.Workload, p.Size,
		p.NumCPU, p.GOOS, p.GOARCH, p.CalibratedAt.Format(time.RFC3339))
}

// GetDefaultProfilePath returns the profile path in the user's home
// directory, or in the working directory when there is none.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// ResolveProfilePath returns path, or the default path when path is empty.
func ResolveProfilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}
