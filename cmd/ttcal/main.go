package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ttcal/internal/calendar"
	"ttcal/internal/config"
	"ttcal/internal/decode"
	appLog "ttcal/internal/log"
	"ttcal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	input      string
	sheet      string
	output     string
	name       string
	timezone   string
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override the config file where provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.name != "" {
		conf.CalendarName = flags.name
	}
	if flags.timezone != "" {
		conf.Timezone = flags.timezone
	}

	appLog.Info("ttcal starting",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"calendar_name", conf.CalendarName,
		"merge_tolerance_minutes", conf.MergeToleranceMinutes,
		"input", flags.input,
	)

	if flags.input != "" {
		if err := runConvert(flags, conf); err != nil {
			appLog.Error("conversion failed", err, "input", flags.input)
			os.Exit(1)
		}
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- web.StartServer(ctx, conf)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLog.Error("HTTP server failed", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}
	appLog.Info("ttcal exiting")
}

// runConvert performs a one-shot file-to-calendar conversion: decode the
// schedule, infer its layout, map rows to events via the suggested roles,
// and write the generated .ics to -out (or stdout).
func runConvert(flags flagConfig, conf *config.Config) error {
	f, err := os.Open(flags.input)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := decode.File(f, flags.input, flags.sheet)
	if err != nil {
		return err
	}
	appLog.Info("schedule decoded",
		"rows", len(parsed.Table.Rows),
		"columns", len(parsed.Table.Columns),
		"sheet", parsed.SheetUsed,
	)

	events := calendar.EventsFromTable(parsed.Table, parsed.Suggested, calendar.TableOptions{
		ReminderMinutes: conf.DefaultReminderMinutes,
	})

	emitter := calendar.NewEmitter()
	emitter.MergeToleranceMinutes = conf.MergeToleranceMinutes
	emitter.DefaultDuration = time.Duration(conf.DefaultDurationMinutes) * time.Minute

	body, err := emitter.Generate(events, conf.CalendarName, conf.Timezone)
	if err != nil {
		return err
	}

	if flags.output == "" || flags.output == "-" {
		_, err = os.Stdout.WriteString(body)
		return err
	}
	return os.WriteFile(flags.output, []byte(body), 0o644)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/ttcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.input, "input", "", "Convert a schedule file (.csv/.xlsx) to .ics and exit")
	flag.StringVar(&cfg.sheet, "sheet", "", "Workbook sheet name to use (default: best sheet)")
	flag.StringVar(&cfg.output, "out", "", "Output path for -input mode (default: stdout)")
	flag.StringVar(&cfg.name, "name", "", "Calendar name (overrides config if set)")
	flag.StringVar(&cfg.timezone, "tz", "", "IANA timezone for the calendar (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
