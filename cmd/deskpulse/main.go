package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"deskpulse/internal/bootstrap"
	wellnessdto "deskpulse/internal/modules/wellness/dto"
	"deskpulse/internal/platform/config"
	apperrors "deskpulse/internal/platform/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:           "deskpulse",
		Short:         "Desk wellness dashboard and focus timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", ".", "data directory")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newSessionCmd(&dataPath))
	root.AddCommand(newReportCmd(&dataPath))
	root.AddCommand(newLiveCmd(&dataPath))
	root.AddCommand(newIngestCmd(&dataPath))
	root.AddCommand(newCollectorCmd(&dataPath))
	root.AddCommand(newConfigCmd(&dataPath))
	return root
}

func loadApp(dataPath string) (*bootstrap.App, error) {
	cfg, err := config.New(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the deskpulse terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newSessionCmd(dataPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Focus session lifecycle"}

	session.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Start(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s at=%s next_break=%s\n",
				out.SessionID, out.StartedAt.Format(time.RFC3339), out.NextBreakAt.Format(time.RFC3339))
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Pause or resume the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.TogglePause(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s: %s elapsed\n", out.State, fmtSeconds(out.ElapsedSeconds))
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the active session and record it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Stop(context.Background())
			if err != nil {
				return err
			}
			if !out.Saved {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session discarded (shorter than a minute)")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session saved: %s focused, %d break(s)\n",
				fmtSeconds(out.DurationSeconds), out.BreaksTaken)
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Status(context.Background())
			if errors.Is(err, apperrors.ErrNoActiveSession) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "state=%s elapsed=%s breaks=%d\n",
				out.State, fmtSeconds(out.ElapsedSeconds), out.BreaksTaken)
			if out.InBreak {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "on break: %s remaining\n", fmtSeconds(out.BreakRemainingSeconds))
			} else if out.State == "running" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "next break in %s\n", fmtSeconds(out.NextBreakInSeconds))
			}
			return nil
		},
	})

	var recentLimit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recently completed sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			records, err := app.SessionCLI.Recent(context.Background(), recentLimit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed sessions")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d break(s)\n",
					r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), fmtSeconds(r.DurationSeconds), r.BreaksTaken)
			}
			return nil
		},
	}
	recent.Flags().IntVar(&recentLimit, "limit", 10, "sessions to show")
	session.AddCommand(recent)

	session.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's focus totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Today(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "today: %d session(s), %s focused, %d break(s)\n",
				out.Sessions, fmtSeconds(out.FocusSeconds), out.BreaksTaken)
			return nil
		},
	})

	return session
}

func newReportCmd(dataPath *string) *cobra.Command {
	var hours, limit int
	var asJSON bool

	report := &cobra.Command{
		Use:   "report",
		Short: "Aggregate the health sample window into a report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			summary, err := app.WellnessCLI.Summary(context.Background(), hours, limit)
			if err != nil {
				return err
			}
			if asJSON {
				raw, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	report.Flags().IntVar(&hours, "hours", 0, "window in hours (default: configured lookback)")
	report.Flags().IntVar(&limit, "limit", 0, "max samples to aggregate (default: configured limit)")
	report.Flags().BoolVar(&asJSON, "json", false, "emit raw JSON")
	return report
}

func printSummary(w io.Writer, s wellnessdto.SummaryOutput) {
	if s.Status != "success" {
		_, _ = fmt.Fprintf(w, "status: %s\n", s.Status)
		if s.Message != "" {
			_, _ = fmt.Fprintln(w, s.Message)
		}
		return
	}

	_, _ = fmt.Fprintf(w, "%d sample(s) over %dh, updated %s\n",
		s.DataPointCount, s.TimeRangeHours, s.LastUpdated.Local().Format("15:04:05"))
	_, _ = fmt.Fprintf(w, "focus %.1f%%  posture %.1f%%  distraction %.1f%%  phone %.1f min\n",
		s.Metrics.FocusScore, s.Metrics.PostureScore, s.Metrics.DistractionLevel, s.Totals.PhoneUsageMinutes)
	_, _ = fmt.Fprintf(w, "grade: %s\n", colorGrade(s.HealthGrade))

	trend := s.Trend.Direction
	switch trend {
	case "improving":
		trend = color.GreenString(trend)
	case "declining":
		trend = color.RedString(trend)
	}
	_, _ = fmt.Fprintf(w, "trend: %s (recent %.3f vs older %.3f)\n", trend, s.Trend.RecentFocus, s.Trend.OlderFocus)

	if len(s.TopRecommendations) > 0 {
		_, _ = fmt.Fprintln(w, "top recommendations:")
		for _, rec := range s.TopRecommendations {
			_, _ = fmt.Fprintf(w, "  %2d× %s\n", rec.Count, rec.Text)
		}
	}
	_, _ = fmt.Fprintf(w, "cycle=%d agent=%s\n", s.Cycle, s.AgentStatus)
}

func newLiveCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Show live gauges from the newest samples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			summary, err := app.WellnessCLI.Summary(context.Background(), 0, 0)
			if err != nil {
				return err
			}
			if summary.Status != "success" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary.Message)
				return nil
			}
			live := summary.LiveMetrics
			printGauge(cmd.OutOrStdout(), "focus", live.FocusScore)
			printGauge(cmd.OutOrStdout(), "posture", live.PostureScore)
			printGauge(cmd.OutOrStdout(), "noise", live.NoiseLevel)
			printGauge(cmd.OutOrStdout(), "phone", live.PhoneUsage)
			return nil
		},
	}
}

func printGauge(w io.Writer, label string, g wellnessdto.GaugeOutput) {
	_, _ = fmt.Fprintf(w, "%-8s %-10s %s\n", label, g.Value, colorStatus(g.Status))
}

func newIngestCmd(dataPath *string) *cobra.Command {
	var file string

	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a JSON array of health samples from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				reader = f
			}
			raw, err := io.ReadAll(reader)
			if err != nil {
				return err
			}
			var samples []wellnessdto.SampleInput
			if err := json.Unmarshal(raw, &samples); err != nil {
				return fmt.Errorf("parse samples: %w", err)
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.WellnessCLI.Ingest(context.Background(), samples)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "received=%d stored=%d\n", out.Received, out.Stored)
			return nil
		},
	}
	ingest.Flags().StringVar(&file, "file", "", "read samples from a file instead of stdin")
	return ingest
}

func newCollectorCmd(dataPath *string) *cobra.Command {
	collector := &cobra.Command{Use: "collector", Short: "Collector plugin operations"}

	collector.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered collectors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			collectors, err := app.CollectorCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(collectors) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no collectors registered")
				return nil
			}
			for _, c := range collectors {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t caps=%s binary=%s\n",
					c.Name, c.Version, c.Enabled, strings.Join(c.Capabilities, ","), c.Binary)
			}
			return nil
		},
	})

	collector.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate collector binaries, checksums, and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			results, err := app.CollectorCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no collectors registered")
				return nil
			}
			failed := false
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s binary=%s checksum=%s lifecycle=%s",
					r.Name, checkMark(r.BinaryReachable), checkMark(r.ChecksumValid), checkMark(r.LifecycleOK))
				if r.Error != "" {
					failed = true
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if failed {
				return fmt.Errorf("collector doctor found failing checks")
			}
			return nil
		},
	})

	var pullName, pullSince string
	var pullLimit int
	var pullJSON bool
	pull := &cobra.Command{
		Use:   "pull --name <collector>",
		Short: "Pull samples from one collector without storing them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(pullName) == "" {
				return fmt.Errorf("--name is required")
			}
			var since time.Time
			if pullSince != "" {
				parsed, err := time.Parse(time.RFC3339, pullSince)
				if err != nil {
					return fmt.Errorf("--since must be RFC 3339: %w", err)
				}
				since = parsed
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.CollectorCLI.Pull(context.Background(), pullName, since, pullLimit)
			if err != nil {
				return err
			}
			if pullJSON {
				raw, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			if len(out.Samples) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no samples")
				return nil
			}
			for _, s := range out.Samples {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s focus=%.3f posture=%.3f phone=%.1fs noise=%.3f cycle=%d %s\n",
					s.Timestamp.Format(time.RFC3339), s.FocusScore, s.PostureScore, s.PhoneUsageSeconds, s.NoiseLevel, s.Cycle, s.AgentStatus)
			}
			return nil
		},
	}
	pull.Flags().StringVar(&pullName, "name", "", "collector name")
	pull.Flags().StringVar(&pullSince, "since", "", "only samples newer than this RFC 3339 timestamp")
	pull.Flags().IntVar(&pullLimit, "limit", 0, "max samples (default: configured limit)")
	pull.Flags().BoolVar(&pullJSON, "json", false, "emit raw JSON")
	collector.AddCommand(pull)

	var statusName string
	status := &cobra.Command{
		Use:   "status --name <collector>",
		Short: "Probe a collector's own status endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(statusName) == "" {
				return fmt.Errorf("--name is required")
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.CollectorCLI.Status(context.Background(), statusName)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s state=%s", out.Collector, colorState(out.State))
			if out.Detail != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " detail=%q", out.Detail)
			}
			if !out.LastSampleAt.IsZero() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " last_sample=%s", out.LastSampleAt.Format(time.RFC3339))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	status.Flags().StringVar(&statusName, "name", "", "collector name")
	collector.AddCommand(status)

	collector.AddCommand(&cobra.Command{
		Use:   "harvest",
		Short: "Pull every enabled collector and store the new samples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			out, err := app.CollectorCLI.Harvest(context.Background())
			if err != nil {
				return err
			}
			if !out.Since.IsZero() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "harvest since %s\n", out.Since.Format(time.RFC3339))
			}
			for _, r := range out.Results {
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %s\n", r.Collector, color.RedString("error: %s", r.Error))
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-16s pulled %3d  stored %3d\n", r.Collector, r.Pulled, r.Stored)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total stored: %d\n", out.Stored)
			return nil
		},
	})

	return collector
}

func newConfigCmd(dataPath *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Inspect and edit deskpulse settings"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(app.Config)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(raw))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one field and write it back to config.yaml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if _, err := app.Settings.Apply(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s=%s\n", args[0], args[1])
			return nil
		},
	})

	return cfgCmd
}

// ─── output helpers ──────────────────────────────────────────────────────────

func fmtSeconds(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), seconds%60)
}

func checkMark(ok bool) string {
	if ok {
		return color.GreenString("ok")
	}
	return color.RedString("fail")
}

func colorStatus(status string) string {
	switch status {
	case "good":
		return color.GreenString(status)
	case "warn":
		return color.YellowString(status)
	case "bad":
		return color.RedString(status)
	}
	return status
}

func colorState(state string) string {
	switch state {
	case "operational":
		return color.GreenString(state)
	case "degraded":
		return color.YellowString(state)
	}
	return color.RedString(state)
}

func colorGrade(grade string) string {
	switch grade {
	case "A", "B":
		return color.GreenString(grade)
	case "C":
		return color.YellowString(grade)
	}
	return color.RedString(grade)
}
