package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/maksab-hq/maksab-admin/app/controllers"
	"github.com/maksab-hq/maksab-admin/app/repository"
	"github.com/maksab-hq/maksab-admin/internal/pkg/cache"
	"github.com/maksab-hq/maksab-admin/internal/pkg/database"
	"github.com/maksab-hq/maksab-admin/internal/pkg/env"
	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
	"github.com/maksab-hq/maksab-admin/internal/pkg/jobqueue"
	"github.com/maksab-hq/maksab-admin/internal/pkg/mail"
	"github.com/maksab-hq/maksab-admin/internal/pkg/payments"
	"github.com/maksab-hq/maksab-admin/internal/pkg/router"
	"github.com/maksab-hq/maksab-admin/internal/pkg/statistics"
	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
	"github.com/maksab-hq/maksab-admin/internal/pkg/support"
)

func main() {
	app := NewApplication()
	defer jobqueue.GetManager().Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4100")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	identityClient := identity.NewClientFromEnv()
	subscriptions := subscription.NewService(identityClient)
	sweeper := subscription.NewSweeper(identityClient)

	manager := jobqueue.GetManager()
	manager.SetSweepRunner(sweeper)
	manager.SetMailSender(mail.SendMail)

	repos := repository.GetGlobalRepositories()
	notifier := support.NewNotifier(cache.GetClient())

	controllers.Setup(&controllers.Services{
		Identity:      identityClient,
		Subscriptions: subscriptions,
		Sweeper:       sweeper,
		Payments:      payments.NewService(repos.Payment, identityClient, subscriptions, manager),
		Support:       support.NewService(repos.SupportSession, repos.SupportMessage, notifier),
		Statistics:    statistics.NewService(repos.Stats),
	})

	app := fiber.New(fiber.Config{
		AppName: "maksab-admin",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	manager.Start()

	return app
}
