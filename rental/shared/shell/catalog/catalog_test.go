package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell/catalog"
	"github.com/onelib/rentalengine/rental/shared/shell/inventory"
)

func Test_Catalog_Title_OverlaysLedgerCounts(t *testing.T) {
	// arrange
	ledger := inventory.NewLedger()
	c := catalog.New(ledger)
	require.NoError(t, c.Add(context.Background(), givenTitle("t-1", "Malgudi Days", "Fiction", 2)))
	require.NoError(t, ledger.Reserve("t-1"))

	// act
	title, err := c.Title(context.Background(), "t-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, title.TotalCopies)
	assert.Equal(t, 1, title.AvailableCopies)
	assert.Equal(t, core.AvailabilityAvailable, title.Availability())
}

func Test_Catalog_Title_Fails_WhenUnknown(t *testing.T) {
	_, err := catalog.New(inventory.NewLedger()).Title(context.Background(), "nope")

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_Catalog_Add_Fails_WhenIDIsTaken(t *testing.T) {
	c := catalog.New(inventory.NewLedger())
	require.NoError(t, c.Add(context.Background(), givenTitle("t-1", "Malgudi Days", "Fiction", 1)))

	err := c.Add(context.Background(), givenTitle("t-1", "Godan", "Fiction", 1))

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func Test_Catalog_Search_PagesByTwentyFour(t *testing.T) {
	// arrange
	c := catalog.New(inventory.NewLedger())
	for i := range 30 {
		require.NoError(t, c.Add(context.Background(), givenTitle(fmt.Sprintf("t-%02d", i), fmt.Sprintf("Book %02d", i), "Fiction", 1)))
	}

	// act
	first, err1 := c.Search(context.Background(), "book", "", 1)
	second, err2 := c.Search(context.Background(), "book", "All", 2)
	third, err3 := c.Search(context.Background(), "book", "", 3)

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	assert.Len(t, first, catalog.PageSize)
	assert.Len(t, second, 6)
	assert.Equal(t, "t-24", second[0].ID)
	assert.Empty(t, third)
}

func Test_Catalog_Search_FiltersByCategory(t *testing.T) {
	c := catalog.New(inventory.NewLedger())
	require.NoError(t, c.Add(context.Background(), givenTitle("t-1", "Malgudi Days", "Fiction", 1)))
	require.NoError(t, c.Add(context.Background(), givenTitle("t-2", "Discovery of India", "History", 1)))

	hits, err := c.Search(context.Background(), "", "history", 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "t-2", hits[0].ID)
}

func Test_Catalog_SearchByField_GroupsHits(t *testing.T) {
	// arrange
	c := catalog.New(inventory.NewLedger())
	title := givenTitle("t-1", "Narayan Stories", "Fiction", 1)
	title.Author = "R. K. Narayan"
	require.NoError(t, c.Add(context.Background(), title))

	// act
	results, err := c.SearchByField(context.Background(), "narayan")

	// assert
	require.NoError(t, err)
	assert.Len(t, results.Title, 1)
	assert.Len(t, results.Author, 1)
	assert.Empty(t, results.Publisher)
}

func givenTitle(id, name, category string, copies int) core.Title {
	return core.Title{
		ID:          id,
		Tenant:      "Central Library",
		Name:        name,
		Author:      "Various",
		Publisher:   "Indian Thought",
		Category:    category,
		RentPrice:   49,
		TotalCopies: copies,
	}
}
