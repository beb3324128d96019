package repository_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/growup/internal/adapters/repository"
	"github.com/okian/growup/internal/domain/growth"
)

func TestOpenWHOOnly(t *testing.T) {
	tables, err := repository.Open(context.Background(), "testdata/tables")
	require.NoError(t, err)

	assert.Equal(t, []string{"wfa_boys_0_13", "wfa_girls_0_5", "wfl_boys_0_2"}, tables.Names())
	assert.False(t, tables.Has("wfa_boys_2_20"), "CDC tables need WithCDC")
	assert.Equal(t, 3, tables.Rows("wfa_girls_0_5"))

	p, ok := tables.Lookup("wfa_girls_0_5", "22")
	require.True(t, ok)
	assert.Equal(t, "-0.0403", p.L.String())
	assert.Equal(t, "11.0151", p.M.String())
	assert.Equal(t, "0.12373", p.S.String())
}

func TestOpenNormalizesHeightKeys(t *testing.T) {
	tables, err := repository.Open(context.Background(), "testdata/tables")
	require.NoError(t, err)

	for _, key := range []string{"49.5", "50.0", "50.5"} {
		_, ok := tables.Lookup("wfl_boys_0_2", key)
		assert.True(t, ok, "missing height key %s", key)
	}
	_, ok := tables.Lookup("wfl_boys_0_2", "50")
	assert.False(t, ok)

	_, ok = tables.Lookup("wfa_boys_0_13", "4")
	assert.True(t, ok)
}

func TestOpenWithCDC(t *testing.T) {
	tables, err := repository.Open(context.Background(), "testdata/tables",
		repository.WithCDC(true), repository.WithConcurrency(1))
	require.NoError(t, err)

	require.True(t, tables.Has("wfa_boys_2_20"))
	p, ok := tables.Lookup("wfa_boys_2_20", "30")
	require.True(t, ok)
	assert.Equal(t, "13.2", p.M.String())
}

func TestLoadedTablesDriveCalculator(t *testing.T) {
	tables, err := repository.Open(context.Background(), "testdata/tables", repository.WithCDC(true))
	require.NoError(t, err)

	calc, err := growth.NewCalculator(tables)
	require.NoError(t, err)

	z, err := calc.ZScoreForMeasurement(context.Background(), "wfa", 10.4, 22.45, "F", 84.8, false)
	require.NoError(t, err)
	assert.Equal(t, "-0.46", z.String())

	z, err = calc.ZScoreForMeasurement(context.Background(), "wfl", 15, 15, "M", 50, false)
	require.NoError(t, err)
	assert.Equal(t, "13.15", z.String())

	z, err = calc.ZScoreForMeasurement(context.Background(), "wfa", 14, 30, "M", 0, true)
	require.NoError(t, err)
	assert.Equal(t, "0.53", z.String())
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty directory", func(t *testing.T) {
		_, err := repository.Load(ctx, fstest.MapFS{})
		assert.ErrorIs(t, err, repository.ErrNoTables)
	})

	t.Run("only unknown tables", func(t *testing.T) {
		_, err := repository.Load(ctx, fstest.MapFS{
			"hcfa_boys_2_20_zscores.json": {Data: []byte(`[{"Month":24,"L":1,"M":49,"S":0.03}]`)},
		})
		assert.ErrorIs(t, err, repository.ErrNoTables)
	})

	cases := map[string]string{
		"not json":         `{`,
		"empty":            `[]`,
		"no index column":  `[{"L":1,"M":2,"S":3}]`,
		"missing S":        `[{"Month":1,"L":1,"M":2}]`,
		"bad number":       `[{"Month":1,"L":"x","M":2,"S":3}]`,
		"duplicate key":    `[{"Month":1,"L":1,"M":2,"S":3},{"Month":1.0,"L":1,"M":2,"S":3}]`,
		"object not array": `{"Month":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repository.Load(ctx, fstest.MapFS{
				"wfa_boys_0_5_zscores.json": {Data: []byte(body)},
			})
			assert.ErrorIs(t, err, repository.ErrBadTable)
		})
	}
}

func TestParseTableKeys(t *testing.T) {
	rows, err := repository.ParseTable([]byte(`[
		{"Height": 84.5, "L": -0.35, "M": 11.8, "S": 0.08},
		{"Height": 85, "L": -0.35, "M": 12.0, "S": 0.08},
		{"Week": 13, "Month": 3, "L": 1, "M": 2, "S": 3}
	]`))
	require.NoError(t, err)

	assert.Contains(t, rows, "84.5")
	assert.Contains(t, rows, "85.0")
	assert.Contains(t, rows, "3", "Month outranks Week")
}
