// Command pagespin rotates the pages of PDF files.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/pagespin/internal/adapters/driven/codec/pdf"
	"github.com/custodia-labs/pagespin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagespin/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/pagespin/internal/adapters/driven/render"
	"github.com/custodia-labs/pagespin/internal/adapters/driven/watch"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
	"github.com/custodia-labs/pagespin/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open settings: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read settings: %v\n", err)
		return 1
	}

	codec := pdf.New()
	files := filesystem.New(0)
	opts := services.SessionOptions{
		Prefix:    settings.Export.Prefix,
		OutputDir: settings.Export.Dir,
	}
	newSession := func() driving.SessionService {
		return services.NewSessionService(codec, files, files, opts)
	}

	cli.SetServices(newSession(), settingsService)
	cli.SetSessionFactory(newSession)
	cli.SetTUIConfig(&cli.TUIConfig{
		Renderer: render.NewThumbnail(0, styles.DefaultTheme().Border),
		NewWatcher: func(minInterval time.Duration) driven.FileWatcher {
			return watch.New(minInterval)
		},
	})
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if kind := domain.ClassifyFailure(err); kind != domain.FailureUnknown {
			fmt.Fprintf(os.Stderr, "%s\n", kind.Message())
		}
		return cli.ExitCode(err)
	}
	return 0
}
