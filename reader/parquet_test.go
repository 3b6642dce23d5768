package reader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/schema"
)

func TestReadParquet(t *testing.T) {
	path := writeParquet(t, t.TempDir(), "courses.parquet", testSections())

	ds, err := ReadParquet(path, "ubc", schema.Default().MustKind(schema.Courses))
	require.NoError(t, err)

	assert.Equal(t, "ubc", ds.ID)
	assert.Equal(t, schema.Courses, ds.Kind)
	require.Len(t, ds.Rows, 2)

	first := ds.Rows[0]
	assert.Equal(t, query.Number(97.5), first["ubc_avg"])
	assert.Equal(t, query.String("cpsc"), first["ubc_dept"])
	assert.Equal(t, query.Number(2015), first["ubc_year"])
	assert.Equal(t, query.String("1001"), first["ubc_uuid"])
	assert.Len(t, first, 10)

	assert.Equal(t, query.String(""), ds.Rows[1]["ubc_instructor"])
}

func TestReadParquetSchemaMismatch(t *testing.T) {
	type wrongType struct {
		Avg  string `parquet:"avg"`
		Dept string `parquet:"dept"`
	}
	type missingColumns struct {
		Avg float64 `parquet:"avg"`
	}

	dir := t.TempDir()
	courses := schema.Default().MustKind(schema.Courses)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"numeric field stored as string", writeParquet(t, dir, "wrong.parquet", []wrongType{{Avg: "97", Dept: "cpsc"}}), `"avg" is BYTE_ARRAY`},
		{"missing columns", writeParquet(t, dir, "missing.parquet", []missingColumns{{Avg: 1}}), `missing column "dept"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadParquet(tt.path, "courses", courses)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaMismatch), "error = %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadParquetNumbersIntoStringFields(t *testing.T) {
	// Some exports store the course id and uuid as integers
	type row struct {
		Audit      int32   `parquet:"audit"`
		Avg        float64 `parquet:"avg"`
		Dept       string  `parquet:"dept"`
		Fail       int32   `parquet:"fail"`
		ID         int64   `parquet:"id"`
		Instructor string  `parquet:"instructor"`
		Pass       int32   `parquet:"pass"`
		Title      string  `parquet:"title"`
		UUID       int64   `parquet:"uuid"`
		Year       int32   `parquet:"year"`
	}

	path := writeParquet(t, t.TempDir(), "ids.parquet", []row{{ID: 310, UUID: 77231, Dept: "cpsc", Year: 2014}})
	ds, err := ReadParquet(path, "courses", schema.Default().MustKind(schema.Courses))
	require.NoError(t, err)
	assert.Equal(t, query.String("310"), ds.Rows[0]["courses_id"])
	assert.Equal(t, query.String("77231"), ds.Rows[0]["courses_uuid"])
}

func TestReadParquetNotFound(t *testing.T) {
	_, err := ReadParquet("does-not-exist.parquet", "courses", schema.Default().MustKind(schema.Courses))
	assert.Error(t, err)
}
