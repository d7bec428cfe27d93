// Package trial runs a full wake-up rehearsal in the terminal: real
// escalation timing, real audio when a device is present, and the dismissal
// challenge driven by coordinates typed on stdin.
package trial

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/dawnkit/wake-pipeline/internal/challenge"
	"github.com/dawnkit/wake-pipeline/internal/domain/wake"
	"github.com/dawnkit/wake-pipeline/internal/escalation"
	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/pipeline"
	"github.com/dawnkit/wake-pipeline/internal/synth"
)

// Options selects what to rehearse.
type Options struct {
	// Sound names the tone profile. Empty uses the default.
	Sound string
	// Challenge names the dismissal variant. Empty uses the default.
	Challenge string
	// Intensity names the alarm strength. Empty uses the default.
	Intensity string

	// Input and Output default to stdin/stdout.
	Input  io.Reader
	Output io.Writer
}

// trialEvents bridges pipeline milestones onto channels the rehearsal
// loop can select on.
type trialEvents struct {
	pipeline.NopEvents

	out       io.Writer
	override  chan struct{}
	completed chan wake.Event
}

func (e *trialEvents) PhaseChanged(phase escalation.Phase) {
	fmt.Fprintf(e.out, "escalation phase: %s\n", phase)
}

func (e *trialEvents) OverrideAvailable() {
	select {
	case e.override <- struct{}{}:
	default:
	}
}

func (e *trialEvents) ChallengeCompleted(event wake.Event) {
	select {
	case e.completed <- event:
	default:
	}
}

// Run rehearses one wake-up end to end and returns when it is dismissed,
// stdin is exhausted or the context is cancelled.
func Run(ctx context.Context, opts *Options) error {
	// The rehearsal talks through stdout; keep routine log lines out of
	// the conversation.
	quiet := logger.Logger().WithOptions(logger.WithLevel(zapcore.WarnLevel))
	ctx = logger.WithName(logger.ToContext(ctx, quiet), "wake-trial")

	input := opts.Input
	if input == nil {
		input = os.Stdin
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	intensity, err := escalation.ParseIntensity(opts.Intensity)
	if err != nil {
		return fmt.Errorf("resolve intensity: %w", err)
	}

	sound := synth.SoundClassic
	if opts.Sound != "" {
		sound = synth.SoundID(opts.Sound)
	}

	kind, err := challenge.ParseKind(opts.Challenge)
	if err != nil {
		return fmt.Errorf("resolve challenge: %w", err)
	}

	var output synth.Output

	output, err = synth.NewOtoOutput(synth.DefaultSampleRate)
	if err != nil {
		fmt.Fprintln(out, "no audio device, rehearsing silently")

		output = synth.DiscardOutput{}
	}

	events := &trialEvents{
		out:       out,
		override:  make(chan struct{}, 1),
		completed: make(chan wake.Event, 1),
	}

	pipe := pipeline.New(pipeline.Options{
		Sounder: synth.NewEngine(output, synth.DefaultSampleRate),
		Events:  events,
	})
	defer pipe.Close(ctx)

	if err = pipe.StartEscalation(ctx, pipeline.Alarm{
		Sound:     sound,
		Challenge: kind,
		Intensity: intensity,
	}); err != nil {
		return fmt.Errorf("start rehearsal: %w", err)
	}

	fmt.Fprintln(out, "alarm firing; the override window opens after the critical stage")

	select {
	case <-ctx.Done():
		return nil
	case <-events.override:
	}

	if !pipe.RequestOverride(ctx) {
		return fmt.Errorf("override was announced but rejected")
	}

	active, ok := pipe.ActiveChallenge()
	if !ok {
		return fmt.Errorf("no challenge after override")
	}

	describeChallenge(out, active)

	return challengeLoop(ctx, pipe, events, input, out)
}

// challengeLoop feeds typed coordinates into the challenge until it is
// passed or input runs out.
func challengeLoop(
	ctx context.Context,
	pipe *pipeline.Pipeline,
	events *trialEvents,
	input io.Reader,
	out io.Writer,
) error {
	fmt.Fprintln(out, `type "X Y" to tap, "q" to give up`)

	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "q" {
			pipe.Cancel(ctx)
			fmt.Fprintln(out, "rehearsal abandoned")

			return nil
		}

		point, err := parsePoint(line)
		if err != nil {
			fmt.Fprintf(out, "bad input: %v\n", err)

			continue
		}

		outcome := pipe.SubmitInput(ctx, point)
		fmt.Fprintf(out, "-> %s\n", outcome)

		select {
		case event := <-events.completed:
			fmt.Fprintf(out, "dismissed in %s with %d misses\n", event.Duration(), event.Misses)

			return nil
		default:
		}

		if active, ok := pipe.ActiveChallenge(); ok {
			describeChallenge(out, active)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return nil
}

// parsePoint parses an "X Y" coordinate pair.
func parsePoint(line string) (challenge.Point, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return challenge.Point{}, fmt.Errorf("want two coordinates, got %d", len(fields))
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return challenge.Point{}, fmt.Errorf("parse x: %w", err)
	}

	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return challenge.Point{}, fmt.Errorf("parse y: %w", err)
	}

	return challenge.Point{X: x, Y: y}, nil
}

// describeChallenge prints the current board so the coordinates to type
// are visible.
func describeChallenge(out io.Writer, active challenge.Challenge) {
	switch c := active.(type) {
	case *challenge.Sequence:
		fmt.Fprintf(out, "sequence: tap targets in order, next is #%d\n", c.NextTarget()+1)

		for i, target := range c.Targets() {
			fmt.Fprintf(out, "  #%d at (%.0f, %.0f)\n", i+1, target.X, target.Y)
		}
	case *challenge.Trace:
		fmt.Fprintf(out, "trace: visit waypoints in order, %d visited\n", c.Visited())

		for i, point := range c.Waypoints() {
			fmt.Fprintf(out, "  #%d at (%.0f, %.0f)\n", i+1, point.X, point.Y)
		}
	case *challenge.ColorMatch:
		fmt.Fprintf(out, "color match: tap %s circles, %d hits so far\n", c.Target(), c.Hits())

		for _, circle := range c.Circles() {
			fmt.Fprintf(out, "  %s at (%.0f, %.0f)\n", circle.Color, circle.Pos.X, circle.Pos.Y)
		}
	}
}
