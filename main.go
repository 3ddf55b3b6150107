package main

import (
	"embed"
	"flag"
	"log"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/presets"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	configPath := flag.String("config", "jaring.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := presets.Open(cfg.Store.Path)
	if err != nil {
		log.Printf("presets disabled: %v", err)
		store = nil
	}

	app := NewApp(cfg, store)

	err = wails.Run(&options.App{
		Title:  cfg.Server.AppName,
		Width:  1100,
		Height: 760,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 240, G: 242, B: 245, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatalf("wails: %v", err)
	}
}
