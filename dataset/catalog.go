// Package dataset provides the in-memory catalog that supplies rows to
// queries. Datasets are added by loaders (see package reader) and read
// concurrently by any number of queries.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vegasq/insightq/query"
)

var (
	// ErrNotFound is returned when no dataset has the requested id
	ErrNotFound = errors.New("dataset not found")

	// ErrExists is returned by Add when the id is already taken
	ErrExists = errors.New("dataset already exists")
)

// Dataset is a named, typed collection of rows. Rows must not be modified
// once the dataset is in a catalog.
type Dataset struct {
	ID   string
	Kind string
	Rows []query.Row
}

// Info summarises a dataset without its rows
type Info struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	NumRows int    `json:"numRows"`
}

// Catalog is a concurrency-safe set of datasets keyed by id
type Catalog struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewCatalog returns an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{datasets: make(map[string]*Dataset)}
}

// Add stores ds, failing if its id is taken
func (c *Catalog) Add(ds *Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.datasets[ds.ID]; exists {
		return fmt.Errorf("%w: %s", ErrExists, ds.ID)
	}
	c.datasets[ds.ID] = ds
	return nil
}

// Put stores ds, replacing any dataset with the same id
func (c *Catalog) Put(ds *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[ds.ID] = ds
}

// Get returns the dataset with the given id
func (c *Catalog) Get(id string) (*Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, ok := c.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ds, nil
}

// Remove deletes the dataset with the given id
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.datasets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(c.datasets, id)
	return nil
}

// List returns a summary of every dataset, sorted by id
func (c *Catalog) List() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]Info, 0, len(c.datasets))
	for _, ds := range c.datasets {
		infos = append(infos, Info{ID: ds.ID, Kind: ds.Kind, NumRows: len(ds.Rows)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
