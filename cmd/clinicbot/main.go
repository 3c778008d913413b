package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dentaline/clinicbot/core/bootstrap"
	corecmd "github.com/dentaline/clinicbot/core/cmd"
	"github.com/dentaline/clinicbot/internal/bot"
	"github.com/dentaline/clinicbot/internal/catalog"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config/config.yaml",

		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},

		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*bot.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}

			res, err := bootstrap.Run(bootstrap.Options{
				Config:   cfg.CoreConfig(),
				Database: cfg.Archive,
			})
			if err != nil {
				return nil, err
			}

			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return nil, err
			}

			return bot.New(cfg, cat, res.DB), nil
		},
	})
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
