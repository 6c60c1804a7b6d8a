// seed registra variantes, ubicaciones y stock inicial desde un catálogo YAML
// en el almacenamiento configurado (STORE_DRIVER).
//
// Uso: go run ./cmd/seed [ruta/catalog.yaml]
// Por defecto usa seed/catalog.example.yaml.
package main

import (
	"context"
	"os"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/store"
	"github.com/jhoicas/stock-ledger/internal/interfaces/seed"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	path := "seed/catalog.example.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	catalog, err := seed.LoadCatalog(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("catálogo")
	}

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	seeder := seed.NewSeeder(backend.Catalog(), backend.Engine(cfg.Ledger, log), log)
	res, err := seeder.Apply(ctx, catalog)
	if err != nil {
		log.Error().Err(err).Msg("carga del catálogo interrumpida")
		backend.Close()
		os.Exit(1)
	}
	log.Info().
		Str("store", backend.Driver).
		Int("variants", res.VariantsCreated).
		Int("locations", res.LocationsCreated).
		Int("movements", res.MovementsApplied).
		Int("skipped", res.Skipped).
		Msg("catálogo cargado")
}
