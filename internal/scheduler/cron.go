package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// SweepSpec is the standard five-field expression for the minute-level
// recovery sweep.
const SweepSpec = "* * * * *"

// Cron runs recurring housekeeping jobs on cron expressions.
type Cron struct {
	cron *cron.Cron
}

// NewCron creates and starts a cron runner with panic recovery, using the
// standard five-field parser.
func NewCron() *Cron {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()

	return &Cron{cron: c}
}

// AddJob schedules a task using the provided cron expression.
func (c *Cron) AddJob(spec string, task func()) error {
	if _, err := c.cron.AddFunc(spec, task); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	return nil
}

// Stop halts the runner and waits for running jobs to finish.
func (c *Cron) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}
