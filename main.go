package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/learningjourney/journey/internal/app"
	"github.com/learningjourney/journey/internal/config"
	"github.com/learningjourney/journey/internal/database"
	"github.com/learningjourney/journey/internal/logging"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/calendar_view"
	"github.com/learningjourney/journey/pkg/day_log"
	log "github.com/sirupsen/logrus"
)

type cliContext struct {
	cfg config.Application
}

type ServeCmd struct{}

func (c *ServeCmd) Run(cliCtx *cliContext) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, cliCtx.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(cliCtx *cliContext) error {
	if !cliCtx.cfg.Database.Enabled {
		return fmt.Errorf("database is disabled, set JOURNEY_DB_ENABLED=true")
	}
	version, err := database.Migrate(cliCtx.cfg.Database)
	if err != nil {
		return err
	}
	log.Infof("Database schema at version %d", version)
	return nil
}

type CalendarCmd struct {
	Month string `help:"Month to show as YYYY-MM. Defaults to the current month." placeholder:"YYYY-MM"`
}

func (c *CalendarCmd) Run(cliCtx *cliContext) error {
	cal, err := app.NewCalendar(cliCtx.cfg.Calendar)
	if err != nil {
		return err
	}
	now := time.Now()
	anchor := cal.StartOfMonth(now)
	if c.Month != "" {
		parsed, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q: %w", c.Month, err)
		}
		anchor = cal.Date(parsed.Year(), parsed.Month(), 1)
	}

	dayLog := day_log.New(cal)
	if cliCtx.cfg.Database.Enabled {
		ctx := context.Background()
		db, err := database.Open(ctx, cliCtx.cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		gridStart := cal.StartOfWeek(anchor)
		entries, err := day_log.NewRepo(db, cal).GetRange(ctx, gridStart, cal.AddDays(gridStart, calendar.MonthGridSize))
		if err != nil {
			return err
		}
		dayLog.Restore(entries)
	}

	fmt.Println(calendar_view.RenderMonth(cal, anchor, dayLog, now))
	return nil
}

var CLI struct {
	Config string `help:"Path to the YAML configuration file." type:"path" default:"./config/application.yaml"`

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP server." default:"1"`
	Migrate  MigrateCmd  `cmd:"" help:"Apply database migrations."`
	Calendar CalendarCmd `cmd:"" help:"Print a month with logged days."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("journey"),
		kong.Description("LearningJourney habit tracker backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logFile.Close()

	if err := kctx.Run(&cliContext{cfg: cfg}); err != nil {
		log.Error(err)
		logFile.Close()
		os.Exit(1)
	}
}
