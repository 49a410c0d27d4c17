package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/discfound/discfound-backend/api/controllers"
	"github.com/discfound/discfound-backend/api/middleware"
	claimsvc "github.com/discfound/discfound-backend/internal/claims"
	contactsvc "github.com/discfound/discfound-backend/internal/contacts"
	itemsvc "github.com/discfound/discfound-backend/internal/items"
	linkersvc "github.com/discfound/discfound-backend/internal/linker"
	profilesvc "github.com/discfound/discfound-backend/internal/profiles"
	reportsvc "github.com/discfound/discfound-backend/internal/reports"
	salesvc "github.com/discfound/discfound-backend/internal/sales"
	sourcesvc "github.com/discfound/discfound-backend/internal/sources"
	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/logger"
	pkgredis "github.com/discfound/discfound-backend/pkg/redis"
)

// NewRouter wires every HTTP surface: public claim pages, the member API and
// the operator admin API. Identity is asserted by the gateway upstream; the
// router only reads the stamped headers.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger db.Pinger,
	redisClient *pkgredis.Client,
	itemService itemsvc.Service,
	profileService profilesvc.Service,
	sourceService sourcesvc.Service,
	contactService contactsvc.Service,
	claimService claimsvc.Service,
	saleService salesvc.Service,
	linkerService *linkersvc.Service,
	reportService *reportsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	pingers := map[string]controllers.Pinger{}
	if dbPinger != nil {
		pingers["postgres"] = dbPinger
	}
	if redisClient != nil {
		pingers["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/v1/claims/{token}", controllers.PublicClaimLookup(claimService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.MemberPing())

		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ReportItem(itemService, logg))
			r.Get("/", controllers.ListItems(itemService, logg))
			r.Get("/{itemId}", controllers.GetItem(itemService, logg))
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me", controllers.GetMyProfile(profileService, logg))
			r.Patch("/me", controllers.UpdateMyProfile(profileService, logg))
		})

		r.Get("/sources", controllers.ListSources(sourceService, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Identity(logg))
		r.Use(middleware.RequireRole(enums.RoleOperator, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1", func(r chi.Router) {
			r.Route("/sources", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateSource(sourceService, logg))
				r.Get("/", controllers.AdminListSources(sourceService, logg))
				r.Get("/{sourceId}", controllers.AdminGetSource(sourceService, logg))
				r.Patch("/{sourceId}", controllers.AdminUpdateSource(sourceService, logg))
			})

			r.Route("/items/{itemId}", func(r chi.Router) {
				r.Patch("/", controllers.AdminUpdateItem(itemService, logg))
				r.Post("/transition", controllers.AdminTransitionItem(itemService, logg))
				r.Post("/claim-link", controllers.AdminMintClaimLink(claimService, logg))
				r.Post("/claim", controllers.AdminRedeemClaim(claimService, logg))
				r.Post("/sale", controllers.AdminRecordSale(saleService, logg))
				r.Get("/contacts", controllers.AdminListContacts(contactService, logg))
				r.Post("/contacts", controllers.AdminRecordContact(contactService, logg))
			})

			r.Get("/imports/report", controllers.AdminImportReport(reportService, logg))

			r.Route("/link-tasks", func(r chi.Router) {
				r.Get("/", controllers.AdminListLinkTasks(linkerService, logg))
				r.Post("/{taskId}/retry", controllers.AdminRetryLinkTask(linkerService, logg))
			})
		})
	})

	return r
}
