package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/unit-planner/internal/calendar"
	"github.com/username/unit-planner/internal/config"
	"github.com/username/unit-planner/internal/plan"
	"github.com/username/unit-planner/internal/scheduler"
	"github.com/username/unit-planner/internal/vault"
	"github.com/username/unit-planner/pkg/timeutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "unit-planner",
		Short: "Assign instructional units to weekly class meetings",
		Long:  "Assign multi-day instructional units to recurring class meetings, generating one plan entry per occurrence with holiday skipping and special-schedule handling",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger()
				}
			} else {
				initLogger()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(assignCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func assignCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "assign <unit> <class> <start-date>",
		Short: "Assign a unit to a class starting from a date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			manager, _ := initComponents(cfg)

			result, err := manager.Assign(args[0], args[1], args[2], dryRun)
			if err != nil {
				return err
			}

			for _, d := range result.Dates {
				line := fmt.Sprintf("  %s  %-16s %-6s %s", d.Date, d.Classification, d.Time, d.Status)
				if d.Conflict {
					line += "  ⚠ time conflict"
				}
				if d.NeedsReview {
					line += "  ⚠ needs review"
				}
				if d.Err != "" {
					line += "  ✗ " + d.Err
				}
				fmt.Println(line)
			}

			fmt.Println(result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the assignment without writing any documents")

	return cmd
}

func calendarCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show loaded calendar sets and classify a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			_, index := initComponents(cfg)

			sets := index.Load()
			fmt.Printf("Holidays:        %d\n", len(sets.Holidays))
			fmt.Printf("Early dismissal: %d\n", len(sets.EarlyDismissal))
			fmt.Printf("Testing day:     %d\n", len(sets.TestingDay))

			if dateStr != "" {
				date, err := timeutil.ParseDate(dateStr)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s", dateStr, index.Classify(date))
				if index.IsHoliday(date) {
					fmt.Print(" (holiday)")
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Classify a specific date (YYYY-MM-DD)")

	return cmd
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <date>",
		Short: "Show the plan entries for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			date, err := timeutil.ParseDate(args[0])
			if err != nil {
				return err
			}

			store := vault.NewFileStore(cfg.Vault.Root, logger)
			docID := cfg.Vault.PlansDir + "/" + timeutil.DateKey(date) + ".md"

			if !store.Exists(docID) {
				fmt.Printf("No plan document for %s\n", args[0])
				return nil
			}

			text, err := store.Read(docID)
			if err != nil {
				return err
			}

			doc := plan.Parse(text, timeutil.NewCodec())
			fmt.Printf("%s (%s)\n", doc.Date, doc.DayOfWeek)
			for _, b := range doc.Blocks {
				fmt.Printf("  %s — %s\n", b.Time.Raw, b.Class)
				for _, line := range b.Body {
					if line != "" {
						fmt.Printf("    %s\n", line)
					}
				}
			}

			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <units|classes>",
		Short: "List the documents in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var collection string
			switch args[0] {
			case "units":
				collection = cfg.Vault.UnitsDir
			case "classes":
				collection = cfg.Vault.ClassesDir
			default:
				return fmt.Errorf("unknown collection %q, expected units or classes", args[0])
			}

			store := vault.NewFileStore(cfg.Vault.Root, logger)
			entries, err := store.ListCollection(collection)
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Println(e.Basename)
			}
			return nil
		},
	}
}

func initComponents(cfg *config.Config) (*scheduler.Manager, *calendar.Index) {
	store := vault.NewFileStore(cfg.Vault.Root, logger)

	index := calendar.NewIndex(
		store,
		cfg.Calendar.HolidaysDoc,
		cfg.Calendar.SchedulesDoc,
		cfg.Calendar.GetCacheTTL(),
		logger,
	)

	manager := scheduler.NewManager(cfg, store, index, timeutil.NewCodec(), logger)

	return manager, index
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
