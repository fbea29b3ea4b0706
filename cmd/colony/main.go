package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/napolitain/colony-sim/internal/analysis"
	"github.com/napolitain/colony-sim/internal/config"
	"github.com/napolitain/colony-sim/internal/loader"
	"github.com/napolitain/colony-sim/internal/logging"
	"github.com/napolitain/colony-sim/internal/models"
	"github.com/napolitain/colony-sim/internal/research"
	"github.com/napolitain/colony-sim/internal/simulation"
	"github.com/napolitain/colony-sim/internal/solver/production"
)

var (
	configFile   string
	scenarioFile string
	days         float64
	csvPath      string
	quiet        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "colony",
		Short: "Tiered resource colony simulator",
		Long: `Works out how a colony's producers, stockpiles and combiners are used
over time: what the crew eats, what gets stored, when stocks run out and
what research the work earns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to colony.yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	resourcesCmd := &cobra.Command{
		Use:   "resources",
		Short: "List the resource catalog",
		RunE:  runResources,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Advance a colony scenario through time",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "Path to colony scenario YAML")
	simulateCmd.Flags().Float64VarP(&days, "days", "d", 0, "Days to simulate (default from config)")
	simulateCmd.Flags().StringVar(&csvPath, "csv", "", "Write the step timeline to this CSV file")
	_ = simulateCmd.MarkFlagRequired("scenario")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check a colony scenario for configuration problems",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "Path to colony scenario YAML")
	_ = analyzeCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(resourcesCmd, simulateCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// app holds what every command needs once config is loaded
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	catalog *models.Catalog
}

func setup() (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("run_id", uuid.NewString()).Logger()

	catalog, err := loader.LoadCatalog(cfg.Data.CatalogPath)
	if err != nil {
		return nil, err
	}
	cliLogger := logging.Component(logger, "CLI")
	cliLogger.Debug().
		Int("resources", len(catalog.Resources())).
		Int("categories", len(catalog.Categories())).
		Msg("Loaded catalog")

	return &app{cfg: cfg, logger: logger, catalog: catalog}, nil
}

func (a *app) loadColony() (*simulation.Colony, error) {
	cfg, err := loader.LoadColony(scenarioFile, a.catalog)
	if err != nil {
		return nil, err
	}
	return simulation.NewColony(cfg), nil
}

// newScenario starts research from scratch, counting kerbal-days in the
// configured day length
func (a *app) newScenario() *research.Scenario {
	scenario := research.NewScenario(a.catalog)
	scenario.SecondsPerKerbalDay = a.cfg.Simulation.SecondsPerDay
	return scenario
}

func printBanner(subtitle string) {
	if quiet {
		return
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14")).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	fmt.Println()
	fmt.Println(style.Render("Colony Simulator\n" + subtitle))
	fmt.Println()
}

func runResources(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	printBanner("Resource catalog")

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Unit", "Research", "Made From", "Stored", "Diet Tier0..Tier4"}),
	)
	for _, r := range a.catalog.Resources() {
		madeFrom := "-"
		if r.MadeFromName != "" {
			madeFrom = fmt.Sprintf("%s (from %s)", r.MadeFromName, r.MadeFromStartingTier)
		}
		category := "-"
		if cat := r.ResearchCategory(); cat != nil {
			category = cat.DisplayName
		}
		_ = table.Append([]string{
			r.BaseName,
			r.Unit,
			category,
			madeFrom,
			formatStorage(r),
			formatDiet(r),
		})
	}
	_ = table.Render()
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	colony, err := a.loadColony()
	if err != nil {
		return err
	}

	span := days
	if span <= 0 {
		span = a.cfg.Simulation.DefaultDays
	}
	secondsPerDay := a.cfg.Simulation.SecondsPerDay

	printBanner(fmt.Sprintf("%s on %s, %d crew, %.1f days", colony.Name, colony.Body, colony.Crew, span))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scenario := a.newScenario()
	runner := simulation.NewRunner(scenario, simulation.Options{
		SecondsPerDay: secondsPerDay,
		MaxSteps:      a.cfg.Simulation.MaxSteps,
	}, a.logger)

	result, runErr := runner.Run(ctx, colony, span*secondsPerDay)
	if result == nil {
		return runErr
	}

	if !quiet {
		printSteps(result.Timeline, secondsPerDay)
		printTotals(result.Timeline, secondsPerDay)
		printEvents(result.Events, secondsPerDay)
		printResearch(scenario)
	}

	var last *production.Utilization
	if n := len(result.Timeline.Steps); n > 0 {
		last = &result.Timeline.Steps[n-1].Utilization
	}
	printWarnings(analysis.Analyze(result.Colony, scenario, a.catalog, last))

	out := csvPath
	if out == "" {
		out = a.cfg.Output.CSVPath
	}
	if out != "" {
		if err := writeTimeline(out, result.Timeline); err != nil {
			return err
		}
		color.Green("Timeline written to %s", out)
	}

	var starved *simulation.StarvationError
	switch {
	case errors.As(runErr, &starved):
		color.Red("\n✗ Colony starved on day %.2f", starved.At/secondsPerDay)
		return runErr
	case runErr != nil:
		return runErr
	}

	color.New(color.FgGreen, color.Bold).Printf("\n✓ Colony survived %.1f days in %d steps\n",
		result.Elapsed/secondsPerDay, len(result.Timeline.Steps))
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	colony, err := a.loadColony()
	if err != nil {
		return err
	}
	printBanner(fmt.Sprintf("Analysis of %s", colony.Name))

	scenario := a.newScenario()
	secondsPerDay := a.cfg.Simulation.SecondsPerDay
	// Research is not kept, so probe against a copy of the scenario.
	u := production.CalculateResourceUtilizationWithOptions(
		production.Options{SecondsPerDay: secondsPerDay},
		colony.Crew, a.cfg.Simulation.DefaultDays*secondsPerDay,
		colony.Producers, colony.Combiners, scenario.Clone(),
		colony.Resources, colony.Storage)

	if u.Feasible() {
		fmt.Printf("First step lasts %.2f days\n\n", u.TimePassed/secondsPerDay)
	}
	warnings := analysis.Analyze(colony, scenario, a.catalog, &u)
	printWarnings(warnings)
	if len(warnings) == 0 {
		color.Green("✓ No problems found")
	}
	return nil
}

func formatStorage(r *models.TieredResource) string {
	switch {
	case r.CanBeStored:
		return "yes"
	case r.ExcessProductionCountsTowardsResearch:
		return "research"
	case r.IsHarvestedLocally:
		return "harvested"
	default:
		return "no"
	}
}

func formatDiet(r *models.TieredResource) string {
	if !r.IsEdible() {
		return "-"
	}
	parts := make([]string, len(r.DietEffectiveness))
	for i, d := range r.DietEffectiveness {
		parts[i] = fmt.Sprintf("%.2f", d)
	}
	return strings.Join(parts, " ")
}
