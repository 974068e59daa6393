package tenant

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorsDeterministic(t *testing.T) {
	a := Colors([]string{"maquis-a", "maquis-b", "maquis-c"})
	b := Colors([]string{"maquis-c", "maquis-a", "maquis-b", "maquis-a"})
	require.Equal(t, a, b, "same tenant set in any order yields identical colors")

	again := Colors([]string{"maquis-a", "maquis-b", "maquis-c"})
	require.Equal(t, a, again)
}

func TestColorsLexicographicAssignment(t *testing.T) {
	colors := Colors([]string{"zanzibar", "abidjan"})
	require.Equal(t, "#e74c3c", colors["abidjan"])
	require.Equal(t, "#3498db", colors["zanzibar"])
}

func TestColorsCycleBeyondPalette(t *testing.T) {
	tenants := make([]string, 25)
	for i := range tenants {
		tenants[i] = fmt.Sprintf("tenant-%02d", i)
	}
	colors := Colors(tenants)
	require.Len(t, colors, 25)
	require.Equal(t, colors["tenant-00"], colors["tenant-20"], "palette wraps at 20")
	require.Equal(t, colors["tenant-04"], colors["tenant-24"])
}

func TestColorsEmpty(t *testing.T) {
	require.Empty(t, Colors(nil))
}
