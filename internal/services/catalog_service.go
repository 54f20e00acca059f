package services

import (
	"strings"

	"pixelmart/internal/domain"
)

type CatalogService struct {
	Shop *Shop
}

func NewCatalogService(shop *Shop) *CatalogService {
	return &CatalogService{Shop: shop}
}

// List filters the catalog by a case-insensitive name/description match and an
// optional category. Empty filters match everything.
func (s *CatalogService) List(q string, category domain.Category) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []domain.Product{}
	s.Shop.View(func(st *domain.State) {
		for _, p := range st.Products {
			if category != "" && p.Category != category {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
				!strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
			out = append(out, p)
		}
	})
	return out
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	var (
		p  domain.Product
		ok bool
	)
	s.Shop.View(func(st *domain.State) { p, ok = st.ProductByID(id) })
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}
