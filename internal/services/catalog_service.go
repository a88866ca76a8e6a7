package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"avotrade/internal/domain"
	"avotrade/internal/imaging"
	"avotrade/internal/search"
	"avotrade/internal/validate"
)

// SpecList decodes either a comma separated string or a JSON array of strings.
type SpecList []string

func (s *SpecList) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err == nil {
		*s = SplitSpecs(raw)
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*s = cleanSpecs(items)
	return nil
}

// SplitSpecs splits on commas, trims each entry and drops empties.
func SplitSpecs(raw string) []string {
	return cleanSpecs(strings.Split(raw, ","))
}

func cleanSpecs(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

var (
	reSpaces  = regexp.MustCompile(`\s+`)
	reNonWord = regexp.MustCompile(`[^\w-]+`)
	reDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify folds accents, lowercases, turns whitespace into hyphens and strips
// everything that is not a word character or hyphen.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = reSpaces.ReplaceAllString(s, "-")
	s = reNonWord.ReplaceAllString(s, "")
	s = reDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type ProductInput struct {
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Price    string   `json:"price"`
	Desc     string   `json:"desc"`
	Specs    SpecList `json:"specs"`
	Badge    *string  `json:"badge"`
	Category string   `json:"category"`
}

func (in ProductInput) Validate() (domain.NewProduct, error) {
	v := &domain.ValidationError{}
	out := domain.NewProduct{
		Specs: []string(in.Specs),
		Badge: optional(in.Badge),
		Image: strings.TrimSpace(in.Image),
	}
	if out.Specs == nil {
		out.Specs = []string{}
	}

	var ok bool
	if out.Name, ok = validate.Text(in.Name, 2, 160); !ok {
		v.Add("name", "must be between 2 and 160 characters")
	} else if out.Slug = Slugify(out.Name); out.Slug == "" {
		v.Add("name", "must contain at least one letter or digit")
	}
	if out.Price, ok = validate.Text(in.Price, 1, 120); !ok {
		v.Add("price", "must be between 1 and 120 characters")
	}
	if out.Desc, ok = validate.Text(in.Desc, 1, 2000); !ok {
		v.Add("desc", "must be between 1 and 2000 characters")
	}
	out.Category = domain.Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if !out.Category.Valid() {
		v.Add("category", "must be avocado or macadamia")
	}
	if out.Badge != nil && len([]rune(*out.Badge)) > 40 {
		v.Add("badge", "must be at most 40 characters")
	}
	if len(out.Specs) > 20 {
		v.Add("specs", "at most 20 entries")
	}
	if err := v.OrNil(); err != nil {
		return domain.NewProduct{}, err
	}
	return out, nil
}

type CatalogService struct {
	Products ProductStore
}

func NewCatalogService(p ProductStore) *CatalogService {
	return &CatalogService{Products: p}
}

func (s *CatalogService) List(ctx context.Context, category, term string) ([]domain.Product, error) {
	f := domain.ProductFilter{}
	if c := strings.TrimSpace(category); c != "" {
		f.Category = domain.Category(strings.ToLower(c))
		if !f.Category.Valid() {
			return nil, domain.Invalid("category", "must be avocado or macadamia")
		}
	}
	q, ok := validate.Q(term)
	if !ok {
		return nil, domain.Invalid("search", "contains unsupported characters or is too long")
	}
	items, err := s.Products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return search.Filter(items, q, domain.Product.SearchFields), nil
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return s.Products.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// Create validates in, re-encodes an inline image and stores the product.
// A name whose slug is taken yields domain.ErrConflict.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	np, err := in.Validate()
	if err != nil {
		return domain.Product{}, err
	}
	if imaging.IsDataURI(np.Image) {
		uri, err := imaging.NormalizeDataURI(np.Image)
		if err != nil {
			return domain.Product{}, domain.Invalid("image", err.Error())
		}
		np.Image = uri
	}
	return s.Products.Create(ctx, np)
}

func (s *CatalogService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.Products.Delete(ctx, id)
}
