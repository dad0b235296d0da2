//go:build ebiten

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/reasv/wfctiled/internal/config"
	"github.com/reasv/wfctiled/internal/logger"
	"github.com/reasv/wfctiled/internal/preview"
	"github.com/reasv/wfctiled/internal/tilemap"
)

func main() {
	configPath := flag.String("config", "", "Path to a generate config file")
	input := flag.String("input", "", "Sample CSV (overrides the config)")
	scale := flag.Int("scale", 8, "Pixels per tile")
	seed := flag.Uint64("seed", 0, "Seed of the first map (overrides the config)")
	flag.Parse()

	logCfg, err := logger.LoadConfig("")
	if err != nil {
		log.Fatalf("loading logging config: %v", err)
	}
	if err := logger.Initialize(logCfg); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	orientations, _ := cfg.OrientationList()
	wrap, _ := cfg.WrapMode()
	pattern, err := tilemap.FromCSV(cfg.Input, cfg.PatternSize, orientations)
	if err != nil {
		log.Fatalf("loading sample: %v", err)
	}

	scene := preview.NewScene(pattern, cfg.OutputSize(), wrap, cfg.Border, cfg.Retries, cfg.Seed)
	if err := scene.Generate(); err != nil {
		log.Fatalf("generating first map: %v", err)
	}

	title := fmt.Sprintf("wfcview - %s", cfg.Input)
	if err := preview.Run(preview.New(scene, *scale), title); err != nil {
		log.Fatal(err)
	}
}
