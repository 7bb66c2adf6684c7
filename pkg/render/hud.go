package render

import (
	"fmt"

	"github.com/opd-ai/go-rotor/pkg/session"
)

// Readouts formats the diagnostic overlay, one line per value.
func Readouts(snap session.Snapshot) []string {
	frame := "-"
	if snap.FrameCount > 0 {
		frame = fmt.Sprintf("%d/%d", snap.Frame, snap.FrameCount)
	}
	period := "stopped"
	if snap.Period > 0 {
		period = snap.Period.String()
	}

	return []string{
		fmt.Sprintf("angle     %6.1f deg", snap.Deg360),
		fmt.Sprintf("angV      %6.3f rad", snap.AngularVelocity),
		fmt.Sprintf("circ/s    %6.2f", snap.CircSec),
		fmt.Sprintf("speed     %6.3f", snap.RotationSpeed),
		fmt.Sprintf("height    %6.3f", snap.HeliHeight),
		fmt.Sprintf("period    %s", period),
		fmt.Sprintf("frame     %s", frame),
		fmt.Sprintf("fps       %6.1f", snap.FrameRate),
		fmt.Sprintf("input     %6.1f Hz", snap.InputRate),
		fmt.Sprintf("atlas     %s", snap.AtlasStatus),
	}
}
