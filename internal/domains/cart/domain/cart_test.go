package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddItem_NewLine(t *testing.T) {
	cart, err := NewCart("default")
	require.NoError(t, err)

	require.NoError(t, cart.AddItem("p1", "Product 1", 6))

	require.Equal(t, []Line{{ID: "p1", Name: "Product 1", UnitPrice: 6, Quantity: 1, TotalPrice: 6}}, cart.Lines)
	require.Equal(t, 1, cart.TotalQuantity)
	require.True(t, cart.Changed)
}

func TestAddItem_ExistingLineAggregates(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))

	require.Len(t, cart.Lines, 1)
	require.Equal(t, 2, cart.Lines[0].Quantity)
	require.Equal(t, float64(12), cart.Lines[0].TotalPrice)
	require.Equal(t, 2, cart.TotalQuantity)
}

func TestAddItem_FirstSeenPriceAndNameWin(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))
	require.NoError(t, cart.AddItem("p1", "Renamed", 99))

	require.Equal(t, "Product 1", cart.Lines[0].Name)
	require.Equal(t, float64(6), cart.Lines[0].UnitPrice)
	require.Equal(t, float64(12), cart.Lines[0].TotalPrice)
}

func TestAddItem_Validation(t *testing.T) {
	cart, _ := NewCart("default")
	require.ErrorIs(t, cart.AddItem("  ", "x", 1), ErrEmptyItemID)
	require.ErrorIs(t, cart.AddItem("p1", "x", -1), ErrInvalidPrice)
	require.Empty(t, cart.Lines)
	require.False(t, cart.Changed)
}

func TestRemoveItem_DecrementsThenDeletes(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))

	require.True(t, cart.RemoveItem("p1"))
	require.Equal(t, 1, cart.Lines[0].Quantity)
	require.Equal(t, float64(6), cart.Lines[0].TotalPrice)
	require.Equal(t, 1, cart.TotalQuantity)

	require.True(t, cart.RemoveItem("p1"))
	require.Empty(t, cart.Lines)
	require.Equal(t, 0, cart.TotalQuantity)
}

func TestRemoveItem_UnknownIDIsNoOp(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))
	before := cart.Snapshot()
	cart.MarkSynced()

	require.False(t, cart.RemoveItem("missing"))
	require.Equal(t, before, cart.Snapshot())
	require.False(t, cart.Changed)
}

func TestAddThenRemoveIsInverseAtQuantityOne(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p2", "Product 2", 3))
	before := cart.Snapshot()

	require.NoError(t, cart.AddItem("p1", "Product 1", 6))
	require.True(t, cart.RemoveItem("p1"))

	require.Equal(t, before, cart.Snapshot())
}

func TestReplace_OverwritesWithoutTouchingDirtyFlag(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))
	cart.MarkSynced()

	remote := []Line{{ID: "p9", Name: "Remote", UnitPrice: 2, Quantity: 3, TotalPrice: 6}}
	cart.Replace(remote, 3)

	require.Equal(t, remote, cart.Lines)
	require.Equal(t, 3, cart.TotalQuantity)
	require.False(t, cart.Changed)

	// mutating the caller's slice must not leak into the cart
	remote[0].Quantity = 99
	require.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestReplace_EmptyRemoteCart(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))

	cart.Replace(nil, 0)

	require.Empty(t, cart.Lines)
	require.Equal(t, 0, cart.TotalQuantity)
	require.True(t, cart.Changed)
}

func TestInvariantsUnderRandomMutationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := []string{"p1", "p2", "p3", "p4"}
	cart, _ := NewCart("default")

	for i := 0; i < 2000; i++ {
		id := items[rng.Intn(len(items))]
		if rng.Intn(3) == 0 {
			cart.RemoveItem(id)
		} else {
			require.NoError(t, cart.AddItem(id, "Product "+id, float64(rng.Intn(50))))
		}

		sum := 0
		for _, line := range cart.Lines {
			require.GreaterOrEqual(t, line.Quantity, 1)
			require.GreaterOrEqual(t, line.TotalPrice, float64(0))
			require.InDelta(t, line.UnitPrice*float64(line.Quantity), line.TotalPrice, 1e-9)
			sum += line.Quantity
		}
		require.Equal(t, sum, cart.TotalQuantity)
		require.GreaterOrEqual(t, cart.TotalQuantity, 0)
	}
}

func TestNewCart_RequiresID(t *testing.T) {
	_, err := NewCart("   ")
	require.ErrorIs(t, err, ErrEmptyCartID)
}

func TestSnapshotIsDefensive(t *testing.T) {
	cart, _ := NewCart("default")
	require.NoError(t, cart.AddItem("p1", "Product 1", 6))

	snap := cart.Snapshot()
	snap.Items[0].Quantity = 42

	require.Equal(t, 1, cart.Lines[0].Quantity)
}
