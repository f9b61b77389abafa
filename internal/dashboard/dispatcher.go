package dashboard

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wifimon-termui/internal/client"
)

// Commander launches the capture tool.
type Commander interface {
	RunWifite(ctx context.Context, target string) (client.Command, error)
}

// Confirmer is a blocking yes/no gate.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Outcome is a dispatch result kind.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeStarted
	OutcomeRejected
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "cancelled"
	}
}

// Report is shown to the operator after a dispatch.
type Report struct {
	Target  string
	Outcome Outcome
	Message string
}

// ActionRecorder counts dispatch outcomes.
type ActionRecorder interface {
	ActionCompleted(result string)
}

type nopActionRecorder struct{}

func (nopActionRecorder) ActionCompleted(string) {}

// NewDispatcher creates and returns capture tool dispatcher.
func NewDispatcher(commander Commander, confirmer Confirmer, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		commander: commander,
		confirmer: confirmer,
		logger:    logger,
		recorder:  nopActionRecorder{},
	}
}

// Dispatcher fires one-shot capture tool commands. It is independent of the
// refresh cycle.
type Dispatcher struct {
	commander Commander
	confirmer Confirmer
	logger    *log.Logger
	recorder  ActionRecorder
}

// SetRecorder sets dispatch outcome recorder.
func (d *Dispatcher) SetRecorder(recorder ActionRecorder) {
	d.recorder = recorder
}

// Run asks for confirmation and, only when given, starts wifite on target.
// It blocks until the operator answers.
func (d *Dispatcher) Run(ctx context.Context, target string) Report {
	report := d.run(ctx, target)
	d.recorder.ActionCompleted(report.Outcome.String())
	return report
}

func (d *Dispatcher) run(ctx context.Context, target string) Report {
	logger := d.logger.WithField("target", target)

	if !d.confirmer.Confirm(fmt.Sprintf("Start Wifite on %s?", Escape(target))) {
		logger.Debug("Wifite dispatch cancelled")
		return Report{Target: target, Outcome: OutcomeCancelled}
	}

	logger.Info("Starting wifite")

	cmd, err := d.commander.RunWifite(ctx, target)
	if err != nil {
		logger.WithError(err).Error("Wifite request failed")
		return Report{
			Target:  target,
			Outcome: OutcomeTransportFailure,
			Message: "Failed to contact backend: " + err.Error(),
		}
	}

	if !cmd.Success {
		logger.WithField("error", cmd.Error).Warn("Wifite rejected")
		return Report{
			Target:  target,
			Outcome: OutcomeRejected,
			Message: "Error: " + cmd.Error,
		}
	}

	return Report{Target: target, Outcome: OutcomeStarted, Message: cmd.Message}
}
