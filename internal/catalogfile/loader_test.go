package catalogfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/basket-pricer/internal/domain/catalog"
	"github.com/xenking/basket-pricer/internal/domain/pricing"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeGzFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return path
}

const sampleCatalog = `# category,kind,price[,bundle_size,bundle_price]
banana,per_unit,1.00
cherry,per_weight,2.00
aubergine,multi_buy,,2,1.00
`

func TestLoad(t *testing.T) {
	c, err := NewLoader().Load(context.Background(), writeFile(t, "catalog.csv", sampleCatalog))
	require.NoError(t, err)

	require.Equal(t, 3, c.Len())

	s, ok := c.Strategy("banana")
	require.True(t, ok)
	assert.Equal(t, pricing.KindPerUnit, s.Kind())
	assert.True(t, d("3.00").Equal(s.Price(d("3"))))

	s, ok = c.Strategy("cherry")
	require.True(t, ok)
	assert.Equal(t, pricing.KindPerWeight, s.Kind())

	s, ok = c.Strategy("aubergine")
	require.True(t, ok)
	assert.Equal(t, pricing.KindMultiBuy, s.Kind())
	assert.True(t, d("2.00").Equal(s.Price(d("3"))))
}

func TestLoadGzip(t *testing.T) {
	c, err := NewLoader().Load(context.Background(), writeGzFile(t, "catalog.csv.gz", sampleCatalog))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoadMergesMultipleFiles(t *testing.T) {
	fruit := writeFile(t, "fruit.csv", "banana,per_unit,1.00\norange,per_unit,1.50\n")
	veg := writeFile(t, "veg.csv", "cucumber,per_unit,1.00\nlettuce,per_unit,0.50\n")

	c, err := NewLoader().Load(context.Background(), fruit, veg)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestLoadDuplicateCategory(t *testing.T) {
	first := writeFile(t, "first.csv", "banana,per_unit,1.00\n")
	second := writeFile(t, "second.csv", "banana,per_unit,2.00\n")

	_, err := NewLoader().Load(context.Background(), first, second)
	require.ErrorIs(t, err, catalog.ErrDuplicateCategory)
}

func TestLoadNoFilesFallsBackToDefault(t *testing.T) {
	c, err := NewLoader().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Len(), c.Len())
}

func TestLoadInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown kind", content: "banana,per_carton,1.00\n"},
		{name: "missing price", content: "banana,per_unit\n"},
		{name: "non-numeric price", content: "banana,per_unit,cheap\n"},
		{name: "multi_buy without bundle", content: "aubergine,multi_buy\n"},
		{name: "zero bundle size", content: "aubergine,multi_buy,,0,1.00\n"},
		{name: "missing category", content: ",per_unit,1.00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(context.Background(), writeFile(t, "bad.csv", tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
