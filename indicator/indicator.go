// Package indicator maps the latest touch/proximity classification onto the
// serial RGB LED: proximity lights the green channel with brightness
// proportional to how close the target is, touch lights blue at maximum,
// and no activity turns both off. Driven once per scheduler cycle.
package indicator

import (
	"proxcode-go/drivers/serialled"
	"proxcode-go/sense"
	"proxcode-go/types"
	"proxcode-go/x/mathx"
)

// BusPin controls the drive mode of the serial LED data line while clocks
// are gated around deep sleep.
type BusPin interface {
	// HighZ puts the line in a high-impedance/analog state so it cannot
	// toggle spuriously during the transition.
	HighZ()
	// Drive restores the active (strong) drive configuration.
	Drive()
}

// Service owns the LED chain and its deep-sleep quiescing.
type Service struct {
	led *serialled.Device
	eng sense.Engine
	pin BusPin
}

func New(led *serialled.Device, eng sense.Engine, pin BusPin) *Service {
	return &Service{led: led, eng: eng, pin: pin}
}

// Refresh recomputes LED 0 from the engine's current classification and
// pushes the frame out.
func (s *Service) Refresh() {
	var c serialled.Color
	switch s.eng.ProximityState() {
	case sense.ProxNear:
		// Brightness proportional to signal deviation over the widget's
		// full span (max raw count minus baseline).
		diff, span := s.eng.ProximitySignal()
		c.G = uint8(mathx.MapU16(diff, 0, span, 0, serialled.BrightnessMax))
	case sense.ProxTouch:
		c.B = serialled.BrightnessMax
	}
	s.led.SetColor(0, c)
	_ = s.led.Display()
}

// TransitionHandler is the LED bus's deep-sleep dependent: always ready,
// quiesces the data line before the transition and restores it after. Pre
// and Post are exact inverses.
func (s *Service) TransitionHandler(phase types.TransitionPhase) error {
	switch phase {
	case types.PhaseReadinessCheck:
		return nil
	case types.PhaseReadinessFailed:
		// Another dependent vetoed; leave the line untouched.
		return nil
	case types.PhasePreTransition:
		s.pin.HighZ()
		return nil
	case types.PhasePostTransition:
		s.pin.Drive()
		return nil
	default:
		return nil
	}
}
