package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Intercept bound policies for a session's intercept slider.
const (
	BoundsAroundMin = "around_min" // [min-5, min+5] of the session's values
	BoundsBelowMax  = "below_max"  // [max-20, max] of the session's values
)

// SessionSpec describes one chart: the historical range it fits and the
// optional starting slider positions.
type SessionSpec struct {
	Name            string   `yaml:"name" validate:"required,alphanum,max=32"`
	From            float64  `yaml:"from" validate:"required"`
	To              float64  `yaml:"to" validate:"required,gtefield=From"`
	Slope           *float64 `yaml:"slope" validate:"omitempty,gte=0,lte=5"`
	Intercept       *float64 `yaml:"intercept"`
	InterceptBounds string   `yaml:"intercept_bounds" validate:"omitempty,oneof=around_min below_max"`
}

// SessionFile is the YAML document pointed to by SESSIONS_FILE.
type SessionFile struct {
	PredictionYear *float64      `yaml:"prediction_year"`
	Sessions       []SessionSpec `yaml:"sessions" validate:"required,min=1,dive"`
}

// ErrDuplicateSession is returned when two sessions share a name.
var ErrDuplicateSession = errors.New("duplicate session name")

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSessions reads and validates a session file.
func LoadSessions(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sessions file: %w", err)
	}
	return ParseSessions(data)
}

// ParseSessions decodes and validates a session document.
func ParseSessions(data []byte) (*SessionFile, error) {
	var sf SessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse sessions file: %w", err)
	}
	if err := validate.Struct(&sf); err != nil {
		return nil, fmt.Errorf("validate sessions file: %w", err)
	}

	seen := make(map[string]struct{}, len(sf.Sessions))
	for _, s := range sf.Sessions {
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSession, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &sf, nil
}
