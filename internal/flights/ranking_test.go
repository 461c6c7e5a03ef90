package flights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBusyRoute(t *testing.T) {
	model := DefaultRouteImportanceModel()

	assert.Equal(t, PriorityBusyRoute, model.Score("DEL", "BOM"))
	// Unordered pair: the reverse direction scores the same
	assert.Equal(t, PriorityBusyRoute, model.Score("BOM", "DEL"))
}

func TestScoreBothHubs(t *testing.T) {
	model := DefaultRouteImportanceModel()

	// PNQ and AMD are both major hubs but PNQ-AMD is not a busy route
	assert.Equal(t, PriorityBothHubs, model.Score("PNQ", "AMD"))
}

func TestScoreOneHub(t *testing.T) {
	model := DefaultRouteImportanceModel()

	assert.Equal(t, PriorityOneHub, model.Score("DEL", "XYZ"))
	assert.Equal(t, PriorityOneHub, model.Score("XYZ", "DEL"))
}

func TestScoreNone(t *testing.T) {
	model := DefaultRouteImportanceModel()

	assert.Equal(t, PriorityNone, model.Score("XYZ", "ABC"))
}

func TestRankPriorityDominatesAltitude(t *testing.T) {
	model := DefaultRouteImportanceModel()

	in := []Flight{
		{ID: "low-priority-high-alt", Origin: "XYZ", Destination: "ABC", Altitude: 41000},
		{ID: "busy-route-low-alt", Origin: "DEL", Destination: "BOM", Altitude: 3000},
	}

	out := model.Rank(in, 0)
	require.Len(t, out, 2)
	assert.Equal(t, "busy-route-low-alt", out[0].ID)
	assert.Equal(t, PriorityBusyRoute, out[0].Priority)
	assert.Equal(t, "low-priority-high-alt", out[1].ID)
}

func TestRankAltitudeBreaksEqualPriority(t *testing.T) {
	model := DefaultRouteImportanceModel()

	in := []Flight{
		{ID: "lower", Origin: "DEL", Destination: "BOM", Altitude: 20000},
		{ID: "higher", Origin: "BOM", Destination: "DEL", Altitude: 36000},
	}

	out := model.Rank(in, 0)
	require.Len(t, out, 2)
	assert.Equal(t, "higher", out[0].ID)
	assert.Equal(t, "lower", out[1].ID)
}

func TestRankTruncatesToLimit(t *testing.T) {
	model := DefaultRouteImportanceModel()

	in := make([]Flight, 0, 80)
	for i := 0; i < 80; i++ {
		in = append(in, Flight{
			ID:          fmt.Sprintf("f%d", i),
			Origin:      "DEL",
			Destination: "BOM",
			Altitude:    10000 + i,
		})
	}

	out := model.Rank(in, 0)
	assert.Len(t, out, MaxRankedFlights)

	out = model.Rank(in, 10)
	assert.Len(t, out, 10)
}

func TestRankIsDeterministic(t *testing.T) {
	model := DefaultRouteImportanceModel()

	in := []Flight{
		{ID: "a", Origin: "DEL", Destination: "XYZ", Altitude: 31000},
		{ID: "b", Origin: "PNQ", Destination: "AMD", Altitude: 28000},
		{ID: "c", Origin: "DEL", Destination: "BOM", Altitude: 12000},
		{ID: "d", Origin: "XYZ", Destination: "ABC", Altitude: 39000},
	}

	first := model.Rank(in, 0)
	second := model.Rank(in, 0)
	assert.Equal(t, first, second)
}

func TestRankStableOnTies(t *testing.T) {
	model := DefaultRouteImportanceModel()

	// Identical priority and altitude: enumeration order must survive
	in := []Flight{
		{ID: "first", Origin: "DEL", Destination: "BOM", Altitude: 30000},
		{ID: "second", Origin: "BOM", Destination: "DEL", Altitude: 30000},
		{ID: "third", Origin: "DEL", Destination: "BOM", Altitude: 30000},
	}

	out := model.Rank(in, 0)
	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].ID)
	assert.Equal(t, "second", out[1].ID)
	assert.Equal(t, "third", out[2].ID)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	model := DefaultRouteImportanceModel()

	in := []Flight{
		{ID: "a", Origin: "XYZ", Destination: "ABC", Altitude: 10000},
		{ID: "b", Origin: "DEL", Destination: "BOM", Altitude: 20000},
	}

	_ = model.Rank(in, 0)
	assert.Equal(t, "a", in[0].ID)
	assert.Equal(t, 0, in[0].Priority)
}
