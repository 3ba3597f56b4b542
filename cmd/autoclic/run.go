package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"autoclic/internal/account"
	"autoclic/internal/gate"
	"autoclic/internal/session"
	"autoclic/internal/surface"
)

var runCmd = &cobra.Command{
	Use:   "run <checkin-url>",
	Short: "Sign every enabled account into a scanned check-in URL",
	Long: `Run one check-in session: validate the scanned URL, load the
attendance page once, then fill and submit the login form for every
enabled account in order. One account failing does not stop the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckIn,
}

func runCheckIn(cmd *cobra.Command, args []string) error {
	raw := strings.TrimSpace(args[0])

	g := gate.New(cfg.Markers...)
	if !g.Validate(raw) {
		return fmt.Errorf("not a trusted attendance URL: %q", raw)
	}

	store, err := account.NewStore(cfg.Store.Path, account.WithKey(cfg.Store.Key))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	enabled, err := store.ListEnabled(ctx)
	if err != nil {
		return err
	}
	if len(enabled) == 0 {
		return fmt.Errorf("no active accounts; add one with %q first", "autoclic accounts add")
	}

	rodOpts := []surface.RodOption{
		surface.WithHeadless(cfg.Browser.Headless),
		surface.WithNavTimeout(cfg.Browser.NavTimeout),
	}
	if cfg.Browser.ControlURL != "" {
		rodOpts = append(rodOpts, surface.WithControlURL(cfg.Browser.ControlURL))
	}
	surf, err := surface.NewRod(rodOpts...)
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer func() { _ = surf.Close() }()

	orch := session.New(surf, store,
		session.WithGate(g),
		session.WithTimings(cfg.Timings),
		session.WithLogger(logger),
		session.WithStatus(func(s string) {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}),
	)

	result, err := orch.Run(ctx, raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	for _, att := range result.Attempts {
		name := att.Account.Name
		if name == "" {
			name = att.Account.ID
		}
		if att.Outcome.Reason != "" {
			fmt.Fprintf(out, "  %-20s %s (%s)\n", name, att.Outcome.Kind, att.Outcome.Reason)
		} else {
			fmt.Fprintf(out, "  %-20s %s\n", name, att.Outcome.Kind)
		}
	}
	fmt.Fprintf(out, "\n%d/%d submitted\n", result.Submitted, result.Attempted)
	return nil
}
