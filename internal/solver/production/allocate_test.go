package production

import (
	"math"
	"testing"

	"github.com/napolitain/colony-sim/internal/models"
)

func matched(t *testing.T, catalog *models.Catalog, available map[string]float64, ms ...*models.Module) []*ProducerData {
	t.Helper()
	list := FindProducers(producers(ms...), newRecordingSink(catalog), available, nil)
	SortProducerList(list)
	return MatchProducersWithSourceProducers(list)
}

func nodeNamed(list []*ProducerData, tiered string, storage bool) *ProducerData {
	for _, n := range list {
		if n.TieredName() == tiered && n.IsStorage == storage {
			return n
		}
	}
	return nil
}

func TestTryToProduceRawNode(t *testing.T) {
	catalog := models.NewTestCatalog()
	list := matched(t, catalog, nil, module(catalog, "Fertilizer", models.Tier0, 3))
	node := list[0]

	assertClose(t, "first request", node.TryToProduce(1), 1)
	assertClose(t, "second request", node.TryToProduce(5), 2)
	assertClose(t, "exhausted", node.TryToProduce(1), 0)
	assertClose(t, "allotted", node.AllottedCapacity, 3)
	if node.WastedCapacity != 0 {
		t.Errorf("raw nodes never waste capacity, got %v", node.WastedCapacity)
	}
}

func TestTryToProduceNonPositiveRequest(t *testing.T) {
	catalog := models.NewTestCatalog()
	node := matched(t, catalog, nil, module(catalog, "Fertilizer", models.Tier0, 3))[0]

	if got := node.TryToProduce(0); got != 0 {
		t.Errorf("zero request delivered %v", got)
	}
	if got := node.TryToProduce(-4); got != 0 {
		t.Errorf("negative request delivered %v", got)
	}
	if node.AllottedCapacity != 0 {
		t.Errorf("allotted changed to %v", node.AllottedCapacity)
	}
}

func TestTryToProducePullsFromSuppliersInOrder(t *testing.T) {
	catalog := models.NewTestCatalog()
	list := matched(t, catalog,
		map[string]float64{"Fertilizer-Tier3": 100},
		module(catalog, "HydroponicSnacks", models.Tier1, 10),
		module(catalog, "Fertilizer", models.Tier1, 2),
	)
	hydro := nodeNamed(list, "HydroponicSnacks-Tier1", false)
	fert := nodeNamed(list, "Fertilizer-Tier1", false)
	stock := nodeNamed(list, "Fertilizer-Tier3", true)

	assertClose(t, "delivered", hydro.TryToProduce(5), 5)
	assertClose(t, "fertilizer producer", fert.AllottedCapacity, 2)
	assertClose(t, "fertilizer stock", stock.AllottedCapacity, 3)
	assertClose(t, "hydroponics", hydro.AllottedCapacity, 5)
}

func TestTryToProduceMarksWasteOnShortfall(t *testing.T) {
	catalog := models.NewTestCatalog()
	list := matched(t, catalog, nil,
		module(catalog, "HydroponicSnacks", models.Tier0, 10),
		module(catalog, "Fertilizer", models.Tier0, 2),
	)
	hydro := nodeNamed(list, "HydroponicSnacks-Tier0", false)

	assertClose(t, "partial delivery", hydro.TryToProduce(4), 2)
	assertClose(t, "wasted", hydro.WastedCapacity, 8)
	assertClose(t, "after waste", hydro.TryToProduce(1), 0)
	assertClose(t, "allotted", hydro.AllottedCapacity, 2)
}

func TestTryToProduceWithinToleranceCountsAsFulfilled(t *testing.T) {
	catalog := models.NewTestCatalog()
	list := matched(t, catalog, nil,
		module(catalog, "HydroponicSnacks", models.Tier0, 10),
		module(catalog, "Fertilizer", models.Tier0, 2-AcceptableError/2),
	)
	hydro := nodeNamed(list, "HydroponicSnacks-Tier0", false)

	assertClose(t, "delivered", hydro.TryToProduce(2), 2)
	if hydro.WastedCapacity != 0 {
		t.Errorf("near-miss should not waste, got %v", hydro.WastedCapacity)
	}
}

func TestTryToProduceAllotmentNeverExceedsCapacity(t *testing.T) {
	catalog := models.NewTestCatalog()
	list := matched(t, catalog,
		map[string]float64{"Fertilizer-Tier0": 1},
		module(catalog, "HydroponicSnacks", models.Tier0, 7),
	)
	hydro := nodeNamed(list, "HydroponicSnacks-Tier0", false)

	total := 0.0
	for _, request := range []float64{1, 2.5, 0.3, 10, math.Inf(1)} {
		got := hydro.TryToProduce(request)
		if got < 0 || got > request {
			t.Errorf("request %v delivered %v", request, got)
		}
		total += got
	}
	assertClose(t, "total", total, 7)
	if hydro.AllottedCapacity > hydro.TotalProductionCapacity {
		t.Errorf("allotted %v over capacity %v", hydro.AllottedCapacity, hydro.TotalProductionCapacity)
	}
}
