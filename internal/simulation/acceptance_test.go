package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"

	"github.com/napolitain/colony-sim/internal/loader"
	"github.com/napolitain/colony-sim/internal/models"
	"github.com/napolitain/colony-sim/internal/research"
	"github.com/napolitain/colony-sim/internal/solver/production"
)

// colonyContext holds the state of one scenario
type colonyContext struct {
	catalog  *models.Catalog
	scenario *research.Scenario
	colony   *Colony

	utilization production.Utilization
	result      *Result
	runErr      error
}

func (cc *colonyContext) reset() {
	*cc = colonyContext{}
}

func (cc *colonyContext) theBuiltInResourceCatalog() error {
	catalog, err := loader.LoadCatalog("")
	if err != nil {
		return err
	}
	cc.catalog = catalog
	cc.scenario = research.NewScenario(catalog)
	return nil
}

func (cc *colonyContext) aColonyOn(body string) error {
	cc.colony = NewColony(&models.ColonyConfig{Name: "Test Colony", Body: body})
	return nil
}

func (cc *colonyContext) aCrewOf(crew int) error {
	cc.colony.Crew = crew
	return nil
}

func (cc *colonyContext) unitsOnHand(amount float64, key string) error {
	cc.colony.Resources[key] = amount
	return nil
}

func (cc *colonyContext) freeStorageFor(amount float64, key string) error {
	cc.colony.Storage[key] = amount
	return nil
}

func (cc *colonyContext) aModuleMaking(enabled, researchFlag, output string, tier int, rate float64) error {
	resource, err := cc.catalog.Resolve(output)
	if err != nil {
		return err
	}
	cc.colony.Producers = append(cc.colony.Producers, &models.Module{
		Name:            fmt.Sprintf("%s #%d", output, len(cc.colony.Producers)+1),
		ModuleKind:      "module",
		ModuleTier:      models.Tier(tier),
		Rate:            rate,
		Produces:        resource,
		BodyName:        cc.colony.Body,
		Enabled:         enabled != "disabled",
		ResearchEnabled: strings.TrimSpace(researchFlag) == "research",
	})
	return nil
}

func (cc *colonyContext) iCalculateUtilizationOver(seconds float64) error {
	cc.utilization = production.CalculateResourceUtilization(
		cc.colony.Crew, seconds, cc.colony.Producers, cc.colony.Combiners,
		cc.scenario, cc.colony.Resources, cc.colony.Storage)
	return nil
}

func (cc *colonyContext) iSimulateDays(days float64) error {
	runner := NewRunner(cc.scenario, DefaultOptions(), zerolog.Nop())
	cc.result, cc.runErr = runner.Run(context.Background(), cc.colony, days*production.SecondsPerDay)
	return nil
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) <= 1e-6*math.Max(1, math.Abs(want))
}

func (cc *colonyContext) timePassedShouldBe(seconds float64) error {
	if !closeTo(cc.utilization.TimePassed, seconds) {
		return fmt.Errorf("time passed = %v, want %v", cc.utilization.TimePassed, seconds)
	}
	return nil
}

func (cc *colonyContext) consumptionShouldBe(key string, perDay float64) error {
	got := cc.utilization.ConsumptionPerSecond[key] * production.SecondsPerDay
	if !closeTo(got, perDay) {
		return fmt.Errorf("consumption of %s = %v per day, want %v", key, got, perDay)
	}
	return nil
}

func (cc *colonyContext) nothingShouldBeProduced() error {
	if len(cc.utilization.ProductionPerSecond) != 0 {
		return fmt.Errorf("expected no production, got %v", cc.utilization.ProductionPerSecond)
	}
	return nil
}

func (cc *colonyContext) theResultShouldBeInfeasible() error {
	u := cc.utilization
	if u.Feasible() || u.ConsumptionPerSecond != nil || u.ProductionPerSecond != nil || u.Breakthroughs != nil {
		return fmt.Errorf("expected an infeasible result, got %+v", u)
	}
	return nil
}

func (cc *colonyContext) limitingResourcesShouldBe(names string) error {
	got := strings.Join(cc.utilization.LimitingResources, ", ")
	if got != names {
		return fmt.Errorf("limiting resources = %q, want %q", got, names)
	}
	return nil
}

func (cc *colonyContext) limitingResourcesShouldBeEmpty() error {
	if cc.utilization.LimitingResources == nil || len(cc.utilization.LimitingResources) != 0 {
		return fmt.Errorf("expected empty limiting resources, got %#v", cc.utilization.LimitingResources)
	}
	return nil
}

func (cc *colonyContext) unusedProductionShouldBe(key string, perDay float64) error {
	got := cc.utilization.UnusedProduction[key]
	if !closeTo(got, perDay) {
		return fmt.Errorf("unused production of %s = %v, want %v", key, got, perDay)
	}
	return nil
}

func (cc *colonyContext) researchProgressShouldBe(category string, kerbalDays float64) error {
	for _, p := range cc.scenario.Progress() {
		if p.Category == category && p.Body == cc.colony.Body {
			if !closeTo(p.KerbalDays, kerbalDays) {
				return fmt.Errorf("%s progress = %v kerbal-days, want %v", category, p.KerbalDays, kerbalDays)
			}
			return nil
		}
	}
	return fmt.Errorf("no %s research on %s", category, cc.colony.Body)
}

func (cc *colonyContext) theRunShouldEndStarvedAfter(seconds float64) error {
	var starved *StarvationError
	if !errors.As(cc.runErr, &starved) {
		return fmt.Errorf("expected starvation, got %v", cc.runErr)
	}
	if !closeTo(starved.At, seconds) {
		return fmt.Errorf("starved at %v, want %v", starved.At, seconds)
	}
	return nil
}

func (cc *colonyContext) theRunShouldCompleteAfter(seconds float64) error {
	if cc.runErr != nil {
		return fmt.Errorf("run failed: %w", cc.runErr)
	}
	if !closeTo(cc.result.Elapsed, seconds) {
		return fmt.Errorf("elapsed %v, want %v", cc.result.Elapsed, seconds)
	}
	return nil
}

func (cc *colonyContext) anEventShouldBeRecorded(eventType, resource string, seconds float64) error {
	for _, e := range cc.result.Events {
		if e.Type.String() == eventType && e.Resource == resource && closeTo(e.Time, seconds) {
			return nil
		}
	}
	return fmt.Errorf("no %s event for %s at %v in %+v", eventType, resource, seconds, cc.result.Events)
}

func (cc *colonyContext) theColonyShouldHold(amount float64, key string) error {
	if got := cc.result.Colony.Resources[key]; !closeTo(got, amount) {
		return fmt.Errorf("colony holds %v of %s, want %v", got, key, amount)
	}
	return nil
}

func (cc *colonyContext) theTimelineShouldHaveSteps(n int) error {
	if got := len(cc.result.Timeline.Steps); got != n {
		return fmt.Errorf("timeline has %d steps, want %d", got, n)
	}
	return nil
}

func InitializeColonyScenario(sc *godog.ScenarioContext) {
	cc := &colonyContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^the built-in resource catalog$`, cc.theBuiltInResourceCatalog)
	sc.Step(`^a colony on "([^"]*)"$`, cc.aColonyOn)
	sc.Step(`^a crew of (\d+)$`, cc.aCrewOf)
	sc.Step(`^(\d+(?:\.\d+)?) units of "([^"]*)" on hand$`, cc.unitsOnHand)
	sc.Step(`^(\d+(?:\.\d+)?) free storage for "([^"]*)"$`, cc.freeStorageFor)
	sc.Step(`^an? (enabled|disabled) ((?:research )?)module making "([^"]*)" at tier (\d) at (\d+(?:\.\d+)?) per day$`, cc.aModuleMaking)

	// Action steps
	sc.Step(`^I calculate utilization over (\d+(?:\.\d+)?) seconds$`, cc.iCalculateUtilizationOver)
	sc.Step(`^I simulate (\d+(?:\.\d+)?) days$`, cc.iSimulateDays)

	// Utilization assertions
	sc.Step(`^time passed should be (\d+(?:\.\d+)?) seconds$`, cc.timePassedShouldBe)
	sc.Step(`^consumption of "([^"]*)" should be (\d+(?:\.\d+)?) per day$`, cc.consumptionShouldBe)
	sc.Step(`^nothing should be produced$`, cc.nothingShouldBeProduced)
	sc.Step(`^the result should be infeasible$`, cc.theResultShouldBeInfeasible)
	sc.Step(`^limiting resources should be "([^"]*)"$`, cc.limitingResourcesShouldBe)
	sc.Step(`^limiting resources should be empty$`, cc.limitingResourcesShouldBeEmpty)
	sc.Step(`^unused production of "([^"]*)" should be (\d+(?:\.\d+)?) per day$`, cc.unusedProductionShouldBe)
	sc.Step(`^research progress for "([^"]*)" should be (\d+(?:\.\d+)?) kerbal-days$`, cc.researchProgressShouldBe)

	// Run assertions
	sc.Step(`^the run should end starved after (\d+(?:\.\d+)?) seconds$`, cc.theRunShouldEndStarvedAfter)
	sc.Step(`^the run should complete after (\d+(?:\.\d+)?) seconds$`, cc.theRunShouldCompleteAfter)
	sc.Step(`^a "([^"]*)" event for "([^"]*)" should be recorded at (\d+(?:\.\d+)?) seconds$`, cc.anEventShouldBeRecorded)
	sc.Step(`^the colony should hold (\d+(?:\.\d+)?) units of "([^"]*)"$`, cc.theColonyShouldHold)
	sc.Step(`^the timeline should have (\d+) steps$`, cc.theTimelineShouldHaveSteps)
}

func TestColonyFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeColonyScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run colony feature tests")
	}
}
