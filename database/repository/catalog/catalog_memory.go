package catalogRepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"choreify/models"

	"github.com/spf13/viper"
)

// MemoryCatalogRepo serves a fixed set of services from memory.
type MemoryCatalogRepo struct {
	services []models.Service
	bySlug   map[string]int
	byID     map[string]int
}

// NewMemoryCatalogRepo indexes services by slug and id.
func NewMemoryCatalogRepo(services []models.Service) *MemoryCatalogRepo {
	sorted := make([]models.Service, len(services))
	copy(sorted, services)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].Name < sorted[j].Name
	})

	r := &MemoryCatalogRepo{
		services: sorted,
		bySlug:   make(map[string]int, len(sorted)),
		byID:     make(map[string]int, len(sorted)),
	}
	for i, svc := range sorted {
		r.bySlug[svc.Slug] = i
		r.byID[svc.ID] = i
	}
	return r
}

func (r *MemoryCatalogRepo) List(ctx context.Context, category string) ([]models.Service, error) {
	out := []models.Service{}
	for _, svc := range r.services {
		if !svc.Active {
			continue
		}
		if category != "" && !strings.EqualFold(svc.Category, category) {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (r *MemoryCatalogRepo) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return r.lookup(r.bySlug, slug)
}

func (r *MemoryCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return r.lookup(r.byID, id)
}

func (r *MemoryCatalogRepo) lookup(index map[string]int, key string) (*models.Service, error) {
	i, ok := index[key]
	if !ok || !r.services[i].Active {
		return nil, ErrNotFound
	}
	svc := r.services[i]
	return &svc, nil
}

type optionSeed struct {
	ID            string   `mapstructure:"id"`
	Name          string   `mapstructure:"name"`
	Price         *float64 `mapstructure:"price"`
	PriceModifier *float64 `mapstructure:"priceModifier"`
}

type serviceSeed struct {
	ID          string       `mapstructure:"id"`
	Slug        string       `mapstructure:"slug"`
	Name        string       `mapstructure:"name"`
	Category    string       `mapstructure:"category"`
	Description string       `mapstructure:"description"`
	BasePrice   float64      `mapstructure:"basePrice"`
	Active      *bool        `mapstructure:"active"`
	Options     []optionSeed `mapstructure:"options"`
}

// LoadCatalogFile reads the "services" list from a YAML or JSON catalog file.
// Services are active unless the file says otherwise.
func LoadCatalogFile(path string) ([]models.Service, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var seeds []serviceSeed
	if err := v.UnmarshalKey("services", &seeds); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", path, err)
	}

	now := time.Now()
	services := make([]models.Service, 0, len(seeds))
	seen := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		if s.ID == "" || s.Slug == "" {
			return nil, fmt.Errorf("catalog entry %q is missing id or slug", s.Name)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate catalog id %q", s.ID)
		}
		seen[s.ID] = true

		svc := models.Service{
			ID:          s.ID,
			Slug:        s.Slug,
			Name:        s.Name,
			Category:    s.Category,
			Description: s.Description,
			BasePrice:   s.BasePrice,
			Active:      s.Active == nil || *s.Active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, o := range s.Options {
			svc.Options = append(svc.Options, models.NewOption(o.ID, o.Name, o.Price, o.PriceModifier))
		}
		services = append(services, svc)
	}
	return services, nil
}
