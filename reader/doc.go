// Package reader loads datasets from files into a dataset.Catalog.
//
// Two file formats are supported, both holding one record per row keyed by
// bare field key ("avg", "dept", "seats"...):
//
//   - Apache Parquet (.parquet), read with parquet-go
//   - JSON arrays (.json), optionally gzip (.json.gz) or zstd (.json.zst)
//     compressed, validated against a JSON Schema derived from the kind
//
// Loaded rows are re-keyed by namespaced column key ("<id>_<field>").
//
// # Basic Usage
//
// Loading one file into a catalog:
//
//	catalog := dataset.NewCatalog()
//	ds, err := reader.Load(schema.Default(), catalog, "courses", "courses", "data/courses.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("loaded %d rows\n", len(ds.Rows))
//
// # Multi-file Operations
//
// A glob pattern loads every matching file into a single dataset:
//
//	ds, err := reader.ReadFiles("data/rooms-*.json.gz", "rooms", schema.Default().MustKind("rooms"))
//
// # Schema Introspection
//
// Inspecting the columns of a parquet file:
//
//	cols, err := reader.InspectParquet("data/courses.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range cols {
//	    fmt.Printf("%s: %s (%s)\n", c.Name, c.Type, c.PhysicalType)
//	}
package reader
