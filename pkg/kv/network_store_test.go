package kv

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/trafficsim/pkg/config"
)

func newTestStore(t *testing.T) *NetworkStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNetworkStore(db)
}

func sampleNetwork(name string) config.Network {
	return config.Network{
		Name: name,
		Intersections: []config.IntersectionSpec{
			{Label: "A", Position: []float64{-7.78, 110.36}},
			{Label: "B", Position: []float64{-7.79, 110.37}},
		},
		Roads: []config.RoadSpec{
			{From: "A", To: "B", SpeedLimit: 50, Length: 12},
		},
		Cars: []config.CarSpec{
			{Kind: "greedy", Start: "A", End: "B", Strategy: "cheapest"},
		},
	}
}

func TestSaveAndLoadNetwork(t *testing.T) {
	store := newTestStore(t)
	want := sampleNetwork("jogja")

	require.NoError(t, store.SaveNetwork(context.Background(), want))

	got, err := store.LoadNetwork("jogja")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingNetwork(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadNetwork("nowhere")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
	assert.ErrorIs(t, store.DeleteNetwork("nowhere"), ErrNetworkNotFound)
}

func TestSaveNetworkWithoutName(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveNetwork(context.Background(), sampleNetwork(""))
	assert.ErrorIs(t, err, config.ErrInvalidNetwork)
}

func TestSaveNetworkCancelled(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SaveNetwork(ctx, sampleNetwork("jogja")), context.Canceled)
	names, err := store.ListNetworks()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListAndDeleteNetworks(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"solo", "jogja", "semarang"} {
		require.NoError(t, store.SaveNetwork(context.Background(), sampleNetwork(name)))
	}

	names, err := store.ListNetworks()
	require.NoError(t, err)
	assert.Equal(t, []string{"jogja", "semarang", "solo"}, names)

	require.NoError(t, store.DeleteNetwork("semarang"))
	names, err = store.ListNetworks()
	require.NoError(t, err)
	assert.Equal(t, []string{"jogja", "solo"}, names)
}

func TestCompressRoundTrip(t *testing.T) {
	bb, err := encodeNetwork(sampleNetwork("jogja"))
	require.NoError(t, err)

	got, err := decodeNetwork(bb)
	require.NoError(t, err)
	assert.Equal(t, "jogja", got.Name)
	assert.Len(t, got.Roads, 1)
}
