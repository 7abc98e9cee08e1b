package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

func TestSnapshotRow(t *testing.T) {
	row := SnapshotRow(models.DashboardSnapshot{
		Date:      "2024-05-10",
		Income:    1500000,
		EggsStock: 400,
		HenDayPct: 92.2,
		Ponds: []models.PondSnapshot{
			{Name: "Kolam 1", Current: 750, Capacity: 1060},
			{Name: "Kolam 2", Current: -5, Capacity: 1060},
		},
	})

	require.Len(t, row, len(SnapshotHeader))
	assert.Equal(t, "2024-05-10", row[0])
	assert.Equal(t, 1500000.0, row[1])
	assert.Equal(t, int64(400), row[6])
	assert.Equal(t, 92.2, row[13])
	assert.Equal(t, "Kolam 1 750/1060; Kolam 2 -5/1060", row[15])
}
