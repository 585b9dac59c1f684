package cmd

import (
	"context"
	"fmt"
	"time"
)

// CheckCmd verifies the configured endpoint answers like a MangaBaka API,
// the probe a host runs when the user edits the talker's URL setting.
type CheckCmd struct {
	Timeout time.Duration `help:"Probe timeout" default:"30s"`
}

func (c *CheckCmd) Run() error {
	talker, err := lookupTalker()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	info := talker.Info()
	fmt.Fprintf(stdout, "%s talker %s (%s)\n", info.Name, info.Version, info.Website)

	result := talker.Check(ctx)
	fmt.Fprintln(stdout, result.Message)
	if !result.OK {
		return fmt.Errorf("availability check failed: %s", result.Message)
	}
	return nil
}
