package sale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantLat float64
		wantLon float64
		wantOK  bool
	}{
		{
			name:    "numeric pair",
			rec:     Record{"latitude": 5.348, "longitude": -4.027},
			wantLat: 5.348, wantLon: -4.027, wantOK: true,
		},
		{
			name:    "numeric strings",
			rec:     Record{"latitude": "48.8566", "longitude": "2.3522"},
			wantLat: 48.8566, wantLon: 2.3522, wantOK: true,
		},
		{
			name:    "boundary values",
			rec:     Record{"latitude": -90.0, "longitude": 180.0},
			wantLat: -90, wantLon: 180, wantOK: true,
		},
		{name: "missing longitude", rec: Record{"latitude": 5.0}},
		{name: "nil latitude", rec: Record{"latitude": nil, "longitude": 2.0}},
		{name: "non-numeric", rec: Record{"latitude": "abidjan", "longitude": 2.0}},
		{name: "latitude out of range", rec: Record{"latitude": 91.0, "longitude": 0.0}},
		{name: "longitude out of range", rec: Record{"latitude": 0.0, "longitude": -180.5}},
		{name: "empty record", rec: Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, ok := tt.rec.Coordinates()
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Equal(t, tt.wantLat, lat)
				require.Equal(t, tt.wantLon, lon)
			}
		})
	}
}

func TestAmountPriorityOrder(t *testing.T) {
	rec := Record{
		"salesPrice": 1500.0,
		"amount":     900.0,
		"total":      100.0,
	}
	require.Equal(t, 1500.0, rec.Amount())

	// salesPrice wins even when later fields are present
	delete(rec, "salesPrice")
	require.Equal(t, 900.0, rec.Amount())
}

func TestAmountSkipsNonNumeric(t *testing.T) {
	rec := Record{
		"salesPrice": "gratuit",
		"amount":     nil,
		"total":      "250.5",
	}
	require.Equal(t, 250.5, rec.Amount())
}

func TestAmountDefaultsToZero(t *testing.T) {
	require.Equal(t, 0.0, Record{}.Amount())
	require.Equal(t, 0.0, Record{"salesPrice": "n/a"}.Amount())
}

func TestAmountZeroIsValid(t *testing.T) {
	// A literal zero amount is a real value, not an absent field.
	rec := Record{"salesPrice": 0.0, "amount": 42.0}
	require.Equal(t, 0.0, rec.Amount())
}

func TestItemsFirstNonEmptyWins(t *testing.T) {
	rec := Record{
		"products": []interface{}{},
		"items":    []interface{}{map[string]interface{}{"qty": 2.0}},
		"lignes":   []interface{}{map[string]interface{}{"qty": 9.0}},
	}
	items := rec.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2.0, items[0]["qty"])
}

func TestItemsAbsent(t *testing.T) {
	require.Nil(t, Record{}.Items())
	require.Nil(t, Record{"products": "not-a-list"}.Items())
}
