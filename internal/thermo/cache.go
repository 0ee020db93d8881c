package thermo

import (
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS flashes (
    fluid          TEXT NOT NULL,
    kind           TEXT NOT NULL,
    pressure       REAL NOT NULL,
    spec           REAL NOT NULL,
    temperature    REAL NOT NULL,
    density        REAL NOT NULL,
    enthalpy       REAL NOT NULL,
    z              REAL NOT NULL,
    kappa          REAL NOT NULL,
    molar_mass     REAL NOT NULL,
    vapor_fraction REAL NOT NULL,
    PRIMARY KEY (fluid, kind, pressure, spec)
);
`

// FlashCache memoizes flash results in sqlite, wrapping any Engine. It is
// an explicit object constructed at the service boundary and passed into
// the evaluation engine by reference; teardown is the explicit Close call,
// not process exit. Use path ":memory:" for a non-persistent cache.
//
// The cache itself implements Engine, so it drops in transparently.
type FlashCache struct {
	inner  Engine
	db     *sql.DB
	hits   int64
	misses int64
}

var _ Engine = (*FlashCache)(nil)

// NewFlashCache opens (or creates) the cache database at path and wraps
// inner.
func NewFlashCache(inner Engine, path string) (*FlashCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open flash cache: %w", err)
	}
	// sqlite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply flash cache schema: %w", err)
	}
	return &FlashCache{inner: inner, db: db}, nil
}

// Close releases the cache database. The wrapped engine is not touched.
func (c *FlashCache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Stats returns cache hit and miss counts since construction.
func (c *FlashCache) Stats() (hits, misses int64) {
	return c.hits, c.misses
}

// FlashPT implements Engine with memoization.
func (c *FlashCache) FlashPT(fluid Fluid, pressureBara, temperatureK float64) (Stream, error) {
	return c.lookup(fluid, "pt", pressureBara, temperatureK, func() (Stream, error) {
		return c.inner.FlashPT(fluid, pressureBara, temperatureK)
	})
}

// FlashPH implements Engine with memoization.
func (c *FlashCache) FlashPH(fluid Fluid, pressureBara, enthalpyJPerKg float64) (Stream, error) {
	return c.lookup(fluid, "ph", pressureBara, enthalpyJPerKg, func() (Stream, error) {
		return c.inner.FlashPH(fluid, pressureBara, enthalpyJPerKg)
	})
}

// quantize rounds a cache key so that float jitter below 1e-6 maps to the
// same row.
func quantize(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func (c *FlashCache) lookup(fluid Fluid, kind string, pressure, spec float64, flash func() (Stream, error)) (Stream, error) {
	p, x := quantize(pressure), quantize(spec)

	var s Stream
	row := c.db.QueryRow(
		`SELECT temperature, density, enthalpy, z, kappa, molar_mass, vapor_fraction
		   FROM flashes WHERE fluid = ? AND kind = ? AND pressure = ? AND spec = ?`,
		fluid.Name, kind, p, x)
	err := row.Scan(&s.Temperature, &s.Density, &s.Enthalpy, &s.Z, &s.Kappa, &s.MolarMass, &s.VaporFraction)
	switch {
	case err == nil:
		c.hits++
		s.Pressure = pressure
		return s, nil
	case err != sql.ErrNoRows:
		return Stream{}, fmt.Errorf("flash cache read: %w", err)
	}

	c.misses++
	s, err = flash()
	if err != nil {
		return Stream{}, err
	}
	if _, err := c.db.Exec(
		`INSERT OR REPLACE INTO flashes
		   (fluid, kind, pressure, spec, temperature, density, enthalpy, z, kappa, molar_mass, vapor_fraction)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fluid.Name, kind, p, x, s.Temperature, s.Density, s.Enthalpy, s.Z, s.Kappa, s.MolarMass, s.VaporFraction,
	); err != nil {
		return Stream{}, fmt.Errorf("flash cache write: %w", err)
	}
	return s, nil
}
