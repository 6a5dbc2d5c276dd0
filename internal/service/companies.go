package service

import (
	"fmt"
	"strings"

	"holdops/internal/domain"
)

// companyDirectory resolves configured companies by slug.
type companyDirectory struct {
	list   []domain.Company
	bySlug map[string]domain.Company
}

func newCompanyDirectory(companies []domain.Company) *companyDirectory {
	d := &companyDirectory{
		list:   append([]domain.Company(nil), companies...),
		bySlug: make(map[string]domain.Company, len(companies)),
	}
	for _, c := range companies {
		d.bySlug[c.Slug] = c
	}
	return d
}

func (d *companyDirectory) all() []domain.Company {
	return append([]domain.Company(nil), d.list...)
}

func (d *companyDirectory) get(slug string) (domain.Company, error) {
	c, ok := d.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return domain.Company{}, fmt.Errorf("%w: %q", domain.ErrUnknownCompany, slug)
	}
	return c, nil
}

// resolve returns the companies named by slugs in order, or every company
// when slugs is empty. Duplicates are dropped.
func (d *companyDirectory) resolve(slugs []string) ([]domain.Company, error) {
	if len(slugs) == 0 {
		return d.all(), nil
	}
	out := make([]domain.Company, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		c, err := d.get(s)
		if err != nil {
			return nil, err
		}
		if seen[c.Slug] {
			continue
		}
		seen[c.Slug] = true
		out = append(out, c)
	}
	return out, nil
}
