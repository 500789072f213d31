package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/lottoracle/internal/config"
	"github.com/rewired-gh/lottoracle/internal/engine"
	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/storage"
	"github.com/rewired-gh/lottoracle/internal/telegram"
)

var (
	configPath string
	csvPath    string
	strategy   string
	record     bool
)

func main() {
	root := &cobra.Command{
		Use:           "lottoracle",
		Short:         "Multi-strategy lottery number scoring and consensus engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to configuration file")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import draw history from a CSV file into storage",
		RunE:  runImport,
	}
	importCmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with n1..n5[,m1..m5] rows")
	_ = importCmd.MarkFlagRequired("csv")

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a prediction strategy over the stored or supplied history",
		RunE:  runPredict,
	}
	predictCmd.Flags().StringVar(&strategy, "strategy", engine.StrategyEnsemble, "Strategy: ml, genetic, pattern, intelligence, ensemble")
	predictCmd.Flags().StringVar(&csvPath, "csv", "", "Load history from CSV instead of storage")
	predictCmd.Flags().BoolVar(&record, "record", false, "Record the prediction in storage")

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compare a predicted ticket against an actual draw",
		RunE:  runEvaluate,
	}
	evaluateCmd.Flags().String("prediction", "", "Predicted ticket, e.g. 3,17,42,66,88")
	evaluateCmd.Flags().String("actual", "", "Actual draw, e.g. 3,17,42,66,88")
	_ = evaluateCmd.MarkFlagRequired("prediction")
	_ = evaluateCmd.MarkFlagRequired("actual")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print a regime-change report and hot/cold snapshot summary",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&csvPath, "csv", "", "Load history from CSV instead of storage")

	root.AddCommand(importCmd, predictCmd, evaluateCmd, analyzeCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		return nil, err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", configPath)
	return cfg, nil
}

func openStorage(cfg *config.Config) (*storage.Storage, error) {
	store, err := storage.New(cfg.Storage.MaxPredictions, cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

// loadHistory reads the draw history from the CSV flag when set, otherwise
// from storage.
func loadHistory(cfg *config.Config) (*models.DrawHistory, error) {
	if csvPath != "" {
		store, err := storage.New(cfg.Storage.MaxPredictions, ":memory:")
		if err != nil {
			return nil, err
		}
		defer store.Close() //nolint:errcheck
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV: %w", err)
		}
		defer f.Close() //nolint:errcheck
		if _, err := store.ImportCSV(f); err != nil {
			return nil, err
		}
		return store.LoadHistory()
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close() //nolint:errcheck
	return store.LoadHistory()
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close() //nolint:errcheck

	n, err := store.ImportCSV(f)
	if err != nil {
		return err
	}
	total, err := store.CountDraws()
	if err != nil {
		return err
	}
	logger.Info("Imported %d draws (%d total stored)", n, total)
	fmt.Printf("Imported %d draws, %d stored in total\n", n, total)
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	history, err := loadHistory(cfg)
	if err != nil {
		return err
	}

	engCfg := engine.DefaultConfig()
	engCfg.Genetic.PopulationSize = cfg.Engine.PopulationSize
	engCfg.Genetic.Generations = cfg.Engine.Generations
	engCfg.Genetic.MutationRate = cfg.Engine.MutationRate

	eng := engine.New(history, engCfg)
	pred, err := eng.Predict(strategy, engine.Options{NPredictions: cfg.Engine.NPredictions})
	if err != nil {
		return err
	}
	// Stamped at the service boundary; engine output stays reproducible.
	pred.GeneratedAt = time.Now().UTC()
	printPrediction(pred)

	if record {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck
		id, err := store.RecordPrediction(pred)
		if err != nil {
			return err
		}
		logger.Info("Prediction recorded as %s", id)
		fmt.Printf("Recorded as %s\n", id)
	}

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := client.SendPrediction(pred); err != nil {
			logger.Error("Failed to send Telegram digest: %v", err)
		} else {
			logger.Info("Sent Telegram prediction digest")
		}
	}
	return nil
}

func printPrediction(pred *models.Prediction) {
	names := make([]string, 0, len(pred.Tickets))
	for name := range pred.Tickets {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Strategy: %s\n", pred.Strategy)
	for _, name := range names {
		for _, ticket := range pred.Tickets[name] {
			fmt.Printf("  %-13s %v", name, ticket.Numbers[:])
			if conf, ok := pred.Confidence[name]; ok {
				fmt.Printf("  confidence %.2f (%s)", conf.Confidence, conf.Level)
			}
			fmt.Println()
			if conf, ok := pred.Confidence[name]; ok && conf.Recommendation != "" {
				fmt.Printf("                %s\n", conf.Recommendation)
			}
		}
	}
	if len(pred.TwoSure) > 0 {
		fmt.Printf("  two sure:     %v\n", pred.TwoSure)
	}
	if len(pred.ThreeDirect) > 0 {
		fmt.Printf("  three direct: %v\n", pred.ThreeDirect)
	}
}

func parseDraw(s string) (models.Draw, error) {
	fields := strings.Split(s, ",")
	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return models.Draw{}, fmt.Errorf("invalid number %q: %w", f, err)
		}
		nums = append(nums, n)
	}
	return models.NewDraw(nums)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	predStr, _ := cmd.Flags().GetString("prediction")
	actualStr, _ := cmd.Flags().GetString("actual")
	predicted, err := parseDraw(predStr)
	if err != nil {
		return fmt.Errorf("prediction: %w", err)
	}
	actual, err := parseDraw(actualStr)
	if err != nil {
		return fmt.Errorf("actual: %w", err)
	}

	history, err := loadHistory(cfg)
	if err != nil {
		// Evaluation needs no history context; fall back to the actual draw.
		history, _ = models.NewHistoryFromDraws([]models.Draw{actual}, nil)
	}

	eng := engine.New(history, engine.DefaultConfig())
	ev := eng.Evaluate(predicted, actual)
	fmt.Printf("Matches:         %d\n", ev.Matches)
	fmt.Printf("Expected random: %.3f\n", ev.ExpectedRandom)
	fmt.Printf("Z-score:         %.2f\n", ev.ZScore)
	fmt.Printf("Significant:     %v\n", ev.Significant)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	history, err := loadHistory(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(history, engine.DefaultConfig())
	report := eng.DetectRegimeChange()
	fmt.Printf("Draws:            %d\n", history.Len())
	fmt.Printf("Regime change:    %v (confidence %.2f)\n", report.Detected, report.Confidence)
	if len(report.Details) > 0 {
		metrics := make([]string, 0, len(report.Details))
		for m := range report.Details {
			metrics = append(metrics, m)
		}
		sort.Strings(metrics)
		for _, m := range metrics {
			fmt.Printf("  %-16s %s\n", m, report.Details[m])
		}
	}

	snap := eng.Snapshot()
	fmt.Printf("Sum mean/std:     %.1f / %.1f (IQR %d..%d)\n", snap.SumMean, snap.SumStd, snap.SumQ1, snap.SumQ3)
	fmt.Printf("Even/high modes:  %d / %d\n", snap.EvenMode, snap.HighMode)
	fmt.Printf("Hot numbers:      %v\n", snap.Hot)
	fmt.Printf("Cold numbers:     %v\n", snap.Cold)
	return nil
}
