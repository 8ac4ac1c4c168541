package handlers

import (
	"storefront/internal/config"
	"storefront/internal/services"
	"storefront/internal/storage"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	HealthHandler  *HealthHandler
}

func NewDeps(st *storage.Store, cfg config.Config) *Deps {
	authSvc := services.NewAuthService(st.Users, services.NewTokens(cfg.JWTSecret), cfg.BcryptCost)
	catalogSvc := services.NewCatalogService(st.Products)
	orderSvc := services.NewOrderService(st.Products, st.Orders)
	healthSvc := services.NewHealthService(st.Pinger, st.DBName)

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc},
		HealthHandler:  &HealthHandler{Health: healthSvc},
	}
}
