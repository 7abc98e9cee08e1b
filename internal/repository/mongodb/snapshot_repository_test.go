package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

func TestSnapshotDocumentShape(t *testing.T) {
	snap := models.DashboardSnapshot{
		Date:      "2024-05-10",
		EggsStock: 400,
		Ponds:     []models.PondSnapshot{{PondID: 1, Name: "Kolam 1", Capacity: 1060, UsagePct: 70.8}},
		CreatedAt: time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(snap)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "2024-05-10", doc["date"])
	assert.Equal(t, int64(400), doc["eggs_stock"])

	ponds, ok := doc["ponds"].(bson.A)
	require.True(t, ok)
	assert.Len(t, ponds, 1)
}
