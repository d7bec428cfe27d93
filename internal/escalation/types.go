package escalation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase is the current alert stage of an escalation session.
type Phase int

const (
	// PhaseStandby is the quiet stage right after the alarm fires.
	PhaseStandby Phase = iota
	// PhaseWarning is the first audible stage.
	PhaseWarning
	// PhaseCritical is the full-intensity stage.
	PhaseCritical
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStandby:
		return "standby"
	case PhaseWarning:
		return "warning"
	case PhaseCritical:
		return "critical"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Intensity is the user-chosen strength of an alarm.
type Intensity int

const (
	// IntensityGentle is the softest setting.
	IntensityGentle Intensity = iota
	// IntensityModerate is the default setting.
	IntensityModerate
	// IntensityIntense is the loudest setting.
	IntensityIntense
)

// ErrInvalidIntensity is returned when an intensity name cannot be parsed.
var ErrInvalidIntensity = errors.New("unknown intensity")

// ParseIntensity maps a configuration string to an Intensity.
func ParseIntensity(s string) (Intensity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gentle":
		return IntensityGentle, nil
	case "moderate", "":
		return IntensityModerate, nil
	case "intense":
		return IntensityIntense, nil
	default:
		return IntensityModerate, fmt.Errorf("%w: %q", ErrInvalidIntensity, s)
	}
}

// String returns the lowercase intensity name.
func (i Intensity) String() string {
	switch i {
	case IntensityGentle:
		return "gentle"
	case IntensityModerate:
		return "moderate"
	case IntensityIntense:
		return "intense"
	default:
		return fmt.Sprintf("intensity(%d)", int(i))
	}
}

// volumes is the fixed three-step ladder of playback volumes.
var volumes = [3]float64{0.3, 0.5, 0.8}

// warningVolume is the ladder step below the configured intensity,
// floored at the softest step.
func warningVolume(i Intensity) float64 {
	step := int(i) - 1
	if step < 0 {
		step = 0
	}

	return volumes[step]
}

// criticalVolume is the ladder step of the configured intensity itself.
func criticalVolume(i Intensity) float64 {
	step := int(i)
	if step < 0 {
		step = 0
	}

	if step >= len(volumes) {
		step = len(volumes) - 1
	}

	return volumes[step]
}

// HapticClass labels the strength of a haptic pulse.
type HapticClass int

const (
	// HapticLight is the soft repeating pulse during Warning.
	HapticLight HapticClass = iota
	// HapticWarning marks the Standby-to-Warning transition.
	HapticWarning
	// HapticHeavy marks the transition into Critical.
	HapticHeavy
	// HapticRigid is the sharp pulse for Critical repeats and override
	// availability.
	HapticRigid
)

// String names the pulse class for logs.
func (c HapticClass) String() string {
	switch c {
	case HapticLight:
		return "light"
	case HapticWarning:
		return "warning"
	case HapticHeavy:
		return "heavy"
	case HapticRigid:
		return "rigid"
	default:
		return "unknown"
	}
}

// Cues receives haptic side effects from controller ticks.
// Implementations must not block: cues are fire-and-forget with no
// acknowledgment or backpressure.
type Cues interface {
	HapticPulse(class HapticClass)
}

// Events notifies the host of observable session milestones.
// Implementations must not block and must tolerate being called from the
// controller's tick goroutine.
type Events interface {
	PhaseChanged(phase Phase)
	OverrideAvailable()
}

// Session is a point-in-time snapshot of an escalation session.
type Session struct {
	// Elapsed is how long the session has been running.
	Elapsed time.Duration
	// Phase is the current alert stage.
	Phase Phase
	// OverrideAvailable reports whether the user may request override.
	OverrideAvailable bool
	// Intensity is the configured alarm strength.
	Intensity Intensity
}

// NopEvents discards all milestone notifications.
type NopEvents struct{}

func (NopEvents) PhaseChanged(Phase) {}
func (NopEvents) OverrideAvailable() {}

// NopCues discards all cues. Useful for hosts without a haptic surface.
type NopCues struct{}

// HapticPulse implements Cues.
func (NopCues) HapticPulse(HapticClass) {}
