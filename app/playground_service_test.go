package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umcp/domain/invariants"
	"umcp/domain/regime"
)

const channelCSV = `t,signal
0,5.0
1,5.0
2,5.0
3,5.1
4,5.0
`

func TestPlaygroundServiceRun(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "data.csv", channelCSV)
	outPath := filepath.Join(dir, "summary.json")

	svc := NewPlaygroundService(regime.DefaultGates())
	summary, err := svc.Run(PlaygroundRequest{
		CSVPath: csvPath,
		Channel: "signal",
		Params:  invariants.Params{A: 0, B: 10},
		OutPath: outPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Samples)
	assert.FileExists(t, outPath)

	total := 0
	for _, n := range summary.RegimeCounts {
		total += n
	}
	assert.Equal(t, 5, total)

	// A near-flat normalized channel stays stable throughout.
	assert.Equal(t, 5, summary.RegimeCounts[regime.Stable])
	assert.InDelta(t, 0.004, summary.MeanOmega, 1e-9)
}

func TestPlaygroundServiceMissingChannel(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "data.csv", channelCSV)

	svc := NewPlaygroundService(regime.DefaultGates())
	_, err := svc.Run(PlaygroundRequest{CSVPath: csvPath, Channel: "absent"})
	require.Error(t, err)
}

func TestPlaygroundSweepDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "data.csv", channelCSV)

	svc := NewPlaygroundService(regime.DefaultGates())
	req := SweepRequest{
		CSVPath: csvPath,
		Channel: "signal",
		Base:    invariants.Params{A: 0, B: 10},
		EpsGrid: []float64{1e-8, 1e-6},
		KGrid:   []int{2, 3},
	}

	first, err := svc.Sweep(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first, 4)

	second, err := svc.Sweep(context.Background(), req)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Eps, second[i].Eps)
		assert.Equal(t, first[i].K, second[i].K)
		assert.Equal(t, first[i].Summary.MeanOmega, second[i].Summary.MeanOmega)
		assert.Equal(t, first[i].Summary.RegimeCounts, second[i].Summary.RegimeCounts)
	}

	// Grid order: eps ascending, K ascending within eps.
	assert.Equal(t, 1e-8, first[0].Eps)
	assert.Equal(t, 2, first[0].K)
	assert.Equal(t, 1e-8, first[1].Eps)
	assert.Equal(t, 3, first[1].K)
	assert.Equal(t, 1e-6, first[2].Eps)
}
