package handlers

import (
	"github.com/jmoiron/sqlx"

	"avotrade/internal/config"
	"avotrade/internal/repos"
	"avotrade/internal/services"
)

type Deps struct {
	EnquiryHandler   *EnquiryHandler
	ProductHandler   *ProductHandler
	AnalyticsHandler *AnalyticsHandler
	NewsHandler      *NewsHandler
	AuthHandler      *AuthHandler

	Auth *services.AuthService
}

// NewDeps wires repositories, services and handlers over one database handle.
// notifier may be nil, in which case new leads are stored without an email.
func NewDeps(db *sqlx.DB, cfg config.Config, notifier services.EnquiryNotifier) *Deps {
	enqRepo := repos.NewEnquiryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	visitRepo := repos.NewVisitRepo(db)
	newsRepo := repos.NewNewsRepo(db)
	userRepo := repos.NewUserRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	return &Deps{
		EnquiryHandler:   &EnquiryHandler{Enquiries: services.NewEnquiryService(enqRepo, notifier)},
		ProductHandler:   &ProductHandler{Catalog: services.NewCatalogService(prodRepo)},
		AnalyticsHandler: &AnalyticsHandler{Analytics: services.NewAnalyticsService(visitRepo, enqRepo)},
		NewsHandler:      &NewsHandler{News: services.NewNewsService(newsRepo)},
		AuthHandler:      &AuthHandler{Auth: authSvc},
		Auth:             authSvc,
	}
}
