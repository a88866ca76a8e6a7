package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"avotrade/internal/domain"
	applog "avotrade/internal/log"
)

func strp(s string) *string { return &s }

// SeedProducts is the launch catalogue.
var SeedProducts = []domain.NewProduct{
	{
		Slug: "crude-avocado-oil", Name: "Crude Avocado Oil", Category: domain.CategoryAvocado,
		Image: "/images/crude-avocado-oil.jpg",
		Price: "Ksh 3.80 - Ksh 4.20 / kg",
		Desc:  "Unrefined, cold-pressed oil retaining all natural nutrients and characteristic emerald green color.",
		Specs: []string{"FFA: < 1.0%", "Peroxide: < 10 meq/kg", "Origin: Kenya/Tanzania"},
		Badge: strp("Best Seller"),
	},
	{
		Slug: "extra-virgin-avocado-oil", Name: "Extra Virgin Avocado Oil", Category: domain.CategoryAvocado,
		Image: "/images/extra-virgin-avocado-oil.jpg",
		Price: "Ksh 8.50 - Ksh 9.50 / kg",
		Desc:  "Premium food-grade oil produced from high-quality Hass avocados. Perfect for culinary applications.",
		Specs: []string{"FFA: < 0.5%", "Cold Pressed", "Emerald Green"},
		Badge: strp("Premium"),
	},
	{
		Slug: "refined-avocado-oil", Name: "Refined Avocado Oil", Category: domain.CategoryAvocado,
		Image: "/images/refined-avocado-oil.jpg",
		Price: "Ksh 4.90 - Ksh 5.50 / kg",
		Desc:  "Bleached and deodorized oil suitable for cosmetics and high-heat cooking. Neutral color and scent.",
		Specs: []string{"FFA: < 0.1%", "Odorless", "Pale Yellow"},
		Badge: strp("Versatile"),
	},
	{
		Slug: "crude-macadamia-oil", Name: "Crude Macadamia Oil", Category: domain.CategoryMacadamia,
		Image: "/images/crude-macadamia-oil.jpg",
		Price: "Inquire for Pricing",
		Desc:  "Cold-pressed macadamia oil, rich in palmitoleic acid. Excellent for premium cosmetic formulations.",
		Specs: []string{"Cold Pressed", "High Palmitoleic Acid", "Origin: Kenya/South Africa"},
		Badge: strp("New"),
	},
	{
		Slug: "refined-macadamia-oil", Name: "Refined Macadamia Oil", Category: domain.CategoryMacadamia,
		Image: "/images/refined-macadamia-oil.jpg",
		Price: "Inquire for Pricing",
		Desc:  "Refined macadamia oil with high smoke point and neutral profile. Ideal for culinary and beauty products.",
		Specs: []string{"Neutral Scent", "High Stability", "Food & Cosmetic Grade"},
		Badge: strp("Premium"),
	},
	{
		Slug: "fresh-avocado-exports", Name: "Fresh Avocado Exports", Category: domain.CategoryAvocado,
		Image: "/images/fresh-avocado-exports.jpg",
		Price: "Market Price (Inquire for Daily Rates)",
		Desc:  "Premium quality fresh avocados (Hass & Fuerte) sourced from verified growers across East Africa. Global GAP certified.",
		Specs: []string{"Origin: Kenya, Tanzania, Uganda", "Size: 12 - 24 count", "Global GAP Certified"},
		Badge: strp("Fresh"),
	},
}

// SeedNews is inserted oldest first so that id order matches publication order.
var SeedNews = []domain.MarketNews{
	{
		Date: "Nov 15, 2024", Tag: "Regulation",
		Title:   "New EU Sustainability Directives for Imported Oils",
		Excerpt: "Importers must now provide enhanced traceability data. AvoTrade processors are already compliant with the new digital tracking requirements.",
	},
	{
		Date: "Nov 24, 2024", Tag: "Harvest Update",
		Title:   "Kenyan Hass Season Outlook Positive",
		Excerpt: "Early indicators show a bumper harvest for the upcoming Hass season in the Mt. Kenya region, promising stable supply for processors.",
	},
	{
		Date: "Nov 28, 2024", Tag: "Market Alert",
		Title:   "European Demand for Crude Avocado Oil Spikes",
		Excerpt: "Cosmetic manufacturers in France and Germany are increasing procurement orders ahead of Q1 2025. Prices expected to rise by 5-8%.",
	},
}

// Seed fills the catalogue and news tables when they are empty. Safe to run on every start.
func Seed(ctx context.Context, db *sqlx.DB) error {
	products := NewProductRepo(db)
	n, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		applog.Info(nil, "seed.products", map[string]any{"count": len(SeedProducts)})
		for _, p := range SeedProducts {
			if _, err := products.Create(ctx, p); err != nil {
				return err
			}
		}
	}

	var news int
	if err := db.GetContext(ctx, &news, `SELECT COUNT(*) FROM market_news`); err != nil {
		return domain.Persistence("news.count", err)
	}
	if news > 0 {
		return nil
	}
	applog.Info(nil, "seed.news", map[string]any{"count": len(SeedNews)})
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Persistence("news.seed", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, item := range SeedNews {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO market_news (published_on, tag, title, excerpt) VALUES (?, ?, ?, ?)`),
			item.Date, item.Tag, item.Title, item.Excerpt); err != nil {
			return domain.Persistence("news.seed", err)
		}
	}
	return domain.Persistence("news.seed", tx.Commit())
}
