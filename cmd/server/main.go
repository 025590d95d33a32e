package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/devcard/devcard"
	"github.com/devcard/devcard/config"
	"github.com/devcard/devcard/inmem"
	"github.com/devcard/devcard/logging"
	"github.com/devcard/devcard/persistent"
	"github.com/devcard/devcard/transport/rest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/sirupsen/logrus"
)

// Keeps everything in process memory, for demos only.
const memoryStoreUrl = "memory:"

type stores struct {
	profiles devcard.ProfileStore
	skills   devcard.SkillStore
}

func listenAndServe(cfg config.Config, s stores) func() error {
	cardController := rest.CardController{
		Viewer:    &devcard.Assembler{Profiles: s.profiles, Skills: s.skills},
		Registrar: &devcard.Registrar{Profiles: s.profiles, Skills: s.skills},
	}
	skillController := rest.SkillController{Store: s.skills}

	server := fiber.New(fiber.Config{ErrorHandler: rest.ErrorHandler})
	server.Use(rest.LogHandler())

	api := rest.NewApi()
	if cfg.HTTP.AllowOrigins != "" {
		api.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))
	}
	if cfg.Debug {
		api.Get("/status", monitor.New())
	}
	cardController.InstallTo(api)
	skillController.InstallTo(api)
	server.Mount("/api/", api)

	server.Static("/", "./www/", fiber.Static{
		Browse: false,
		Index:  "index.html",
	})

	server.Use(rest.NotFoundHandler)

	addr := cfg.HTTP.Addr
	if addr == "" {
		if cfg.Debug {
			addr = "127.0.0.1:2137"
		} else {
			addr = ":2137"
		}
	}
	go func() {
		if err := server.Listen(addr); err != nil {
			logrus.WithError(err).Fatalln("Could not listen.")
		}
	}()

	return server.Shutdown
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	initSchema := flag.Bool("init-schema", false, "create missing tables and seed sample skills")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatalln("Could not load configuration.")
	}
	if err := logging.Setup(cfg.Debug, cfg.Syslog, "devcard_server"); err != nil {
		logrus.WithError(err).Fatalln("Could not set up logging.")
	}
	if err := cfg.RequireServer(); err != nil {
		logrus.WithError(err).Fatalln("Missing required configuration.")
	}
	logrus.Infoln("Starting backend.")

	var s stores
	if cfg.Store.URL == memoryStoreUrl {
		logrus.Warningln("Using in-memory store. Data is lost on shutdown.")
		store := inmem.NewStore(persistent.DefaultSkills...)
		s = stores{profiles: store, skills: store}
	} else {
		pcfg, err := cfg.Persistent()
		if err != nil {
			logrus.WithError(err).Fatalln("Invalid store configuration.")
		}

		logrus.Infoln("Opening database.")
		ctx := context.Background()
		db, err := persistent.Open(ctx, pcfg)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not open database.")
		}
		defer db.Close()

		if *initSchema {
			if err := persistent.CreateSchema(ctx, db); err != nil {
				logrus.WithError(err).Fatalln("Could not create schema.")
			}
			if err := persistent.SeedSkills(ctx, db, persistent.DefaultSkills...); err != nil {
				logrus.WithError(err).Fatalln("Could not seed skills.")
			}
		}
		s = stores{
			profiles: &persistent.ProfileStore{DB: db},
			skills:   &persistent.SkillStore{DB: db},
		}
	}

	logrus.Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(cfg, s)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	if err := shutdown(); err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
}
