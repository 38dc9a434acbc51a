package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/maksab-hq/maksab-admin/app/controllers"
	"github.com/maksab-hq/maksab-admin/internal/pkg/env"
	"github.com/maksab-hq/maksab-admin/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))

	// External schedulers hit this without credentials.
	api.Get("/subscription-check", controllers.HandleSubscriptionCheck)

	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())

	orgs := v1.Group("/organizations")
	orgs.Get("/", controllers.HandleListOrganizations)
	orgs.Post("/", controllers.HandleCreateOrganization)
	orgs.Get("/:id", controllers.HandleGetOrganization)
	orgs.Patch("/:id", controllers.HandleUpdateOrganization)
	orgs.Delete("/:id", controllers.HandleDeleteOrganization)
	orgs.Put("/:id/subscription", controllers.HandleUpdateSubscription)

	users := v1.Group("/users")
	users.Get("/", controllers.HandleListUsers)
	users.Post("/", controllers.HandleCreateUser)
	users.Patch("/:id", controllers.HandleUpdateUser)
	users.Delete("/:id", controllers.HandleDeleteUser)
	users.Post("/bulk-delete", controllers.HandleDeleteUsers)

	payments := v1.Group("/payments")
	payments.Get("/", controllers.HandleListPayments)
	payments.Put("/:id/status", controllers.HandleUpdatePaymentStatus)
	payments.Delete("/:id", controllers.HandleDeletePayment)

	v1.Get("/support/feed", controllers.HandleSupportFeed)

	support := v1.Group("/support/sessions")
	support.Get("/", controllers.HandleListSupportSessions)
	support.Post("/", controllers.HandleCreateSupportSession)
	support.Get("/:id", controllers.HandleGetSupportSession)
	support.Put("/:id/status", controllers.HandleUpdateSupportSessionStatus)
	support.Post("/:id/messages", controllers.HandleSendSupportMessage)
	support.Put("/:id/messages/:messageId", controllers.HandleUpdateSupportMessage)
	support.Post("/:id/seen", controllers.HandleMarkSupportMessagesSeen)

	settings := v1.Group("/settings")
	settings.Get("/bank-details", controllers.HandleGetBankDetails)
	settings.Put("/bank-details", controllers.HandleUpdateBankDetails)

	v1.Get("/dashboard/stats", controllers.HandleGetDashboardStats)
}

// newLimiterStorage backs the rate limiter with Redis so counters
// survive restarts and are shared between instances.
func newLimiterStorage() *redisstorage.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 1,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
