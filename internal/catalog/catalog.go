// Package catalog loads and serves the static clinic content: service
// categories with priced items, the doctor roster, current promos, and
// general clinic information. The catalog is read-only after Load; a
// content change requires a process restart.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/dentaline/clinicbot/core/logger"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// ServiceItem is a single priced service within a category.
type ServiceItem struct {
	Name     string `yaml:"name"`
	Price    int    `yaml:"price"`
	Duration string `yaml:"duration"`
	Photo    string `yaml:"photo"`
}

// Doctor describes one member of the clinic staff.
type Doctor struct {
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Experience string `yaml:"experience"`
}

// Promo is a current special offer.
type Promo struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ClinicInfo holds general clinic metadata shown on the about screen.
type ClinicInfo struct {
	Name        string `yaml:"name"`
	Address     string `yaml:"address"`
	Phone       string `yaml:"phone"`
	Hours       string `yaml:"hours"`
	Description string `yaml:"description"`
}

type fileSchema struct {
	Clinic        ClinicInfo               `yaml:"clinic"`
	CategoryOrder []string                 `yaml:"category_order"`
	Services      map[string][]ServiceItem `yaml:"services"`
	Doctors       []Doctor                 `yaml:"doctors"`
	Promos        []Promo                  `yaml:"promos"`
}

// Catalog is the immutable content store shared by all handlers.
type Catalog struct {
	clinic     ClinicInfo
	categories []string
	services   map[string][]ServiceItem
	doctors    []Doctor
	promos     []Promo
}

// Load reads the catalog YAML file and validates its referential integrity.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var raw fileSchema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	if strings.TrimSpace(raw.Clinic.Name) == "" {
		return nil, fmt.Errorf("catalog: clinic.name is required")
	}
	if len(raw.CategoryOrder) == 0 {
		return nil, fmt.Errorf("catalog: category_order is required")
	}
	for _, cat := range raw.CategoryOrder {
		if _, ok := raw.Services[cat]; !ok {
			return nil, fmt.Errorf("catalog: category_order entry %q has no services section", cat)
		}
	}
	for cat := range raw.Services {
		if !contains(raw.CategoryOrder, cat) {
			return nil, fmt.Errorf("catalog: services category %q missing from category_order", cat)
		}
	}

	c := &Catalog{
		clinic:     raw.Clinic,
		categories: raw.CategoryOrder,
		services:   raw.Services,
		doctors:    raw.Doctors,
		promos:     raw.Promos,
	}

	total := 0
	for _, items := range c.services {
		total += len(items)
	}
	logger.CAT.Info("catalog loaded",
		slog.String("event", "load"),
		slog.String("path", path),
		slog.Int("categories", len(c.categories)),
		slog.Int("services", total),
		slog.Int("doctors", len(c.doctors)),
		slog.Int("promos", len(c.promos)),
	)
	return c, nil
}

// Clinic returns general clinic metadata.
func (c *Catalog) Clinic() ClinicInfo { return c.clinic }

// Categories returns category names in their configured display order.
func (c *Catalog) Categories() []string { return c.categories }

// Items returns the services of one category in configured order.
func (c *Catalog) Items(category string) ([]ServiceItem, bool) {
	items, ok := c.services[category]
	return items, ok
}

// Doctors returns the staff roster.
func (c *Catalog) Doctors() []Doctor { return c.doctors }

// Promos returns current special offers.
func (c *Catalog) Promos() []Promo { return c.promos }

// FlattenServices returns every service across all categories as one
// numbered selection list, category order first, item order within.
// Entries are formatted as "<name> (<price> руб.)".
func (c *Catalog) FlattenServices() []string {
	var all []string
	for _, cat := range c.categories {
		for _, item := range c.services[cat] {
			all = append(all, fmt.Sprintf("%s (%d руб.)", item.Name, item.Price))
		}
	}
	return all
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
