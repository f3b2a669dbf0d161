package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/glowmarket/hunter/internal/config"
	"github.com/glowmarket/hunter/internal/hunt"
	"github.com/glowmarket/hunter/internal/sink"
	"github.com/glowmarket/hunter/pkg/google"
	"github.com/glowmarket/hunter/pkg/sheets"
)

// hunterEnv holds the clients and the Hunter needed by the run/ensure/serve
// commands.
type hunterEnv struct {
	Store  sheets.Client
	Sink   *sink.Sink
	Hunter *hunt.Hunter
}

// initHunter validates configuration for mode, then builds the Places client,
// the destination store and the Hunter.
func initHunter(ctx context.Context, mode string) (*hunterEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	store, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	sk := sink.New(store, sink.WithChunkSize(cfg.Sheets.ChunkSize))

	placesClient := google.NewClient(cfg.Google.Key,
		google.WithBaseURL(cfg.Google.BaseURL),
		google.WithLanguage(cfg.Google.Language),
		google.WithRegion(cfg.Google.Region),
		google.WithHTTPClient(&http.Client{Timeout: seconds(cfg.Google.TimeoutSecs, 15)}),
	)

	searcher := hunt.NewSearcher(placesClient,
		hunt.WithPageDelay(cfg.Search.PageDelay()),
		hunt.WithMaxPages(cfg.Search.MaxPages),
	)
	details := hunt.NewDetailFetcher(placesClient, cfg.Details.RateLimit)

	h := hunt.New(searcher, details, sk, hunt.Config{
		DefaultCategories: cfg.Hunt.DefaultCategories,
		DetailsEnabled:    cfg.Details.Enabled,
		Concurrency:       cfg.Details.Concurrency,
		PreviewRows:       cfg.Hunt.PreviewRows,
		Source:            cfg.Hunt.Source,
		IncludeCountry:    cfg.Sheets.IncludeCountry,
	})

	return &hunterEnv{Store: store, Sink: sk, Hunter: h}, nil
}

// initStore opens the destination selected by store.driver.
func initStore(ctx context.Context) (sheets.Client, error) {
	switch cfg.Store.Driver {
	case config.DriverXLSX:
		zap.L().Info("using local workbook store", zap.String("path", cfg.Store.XLSXPath))
		wb, err := sheets.OpenWorkbook(cfg.Store.XLSXPath)
		if err != nil {
			return nil, eris.Wrap(err, "open workbook")
		}
		return wb, nil
	default:
		creds, err := cfg.Sheets.Credentials()
		if err != nil {
			return nil, err
		}
		hc, err := sheets.NewServiceAccountHTTPClient(ctx, creds, seconds(cfg.Sheets.TimeoutSecs, 30))
		if err != nil {
			return nil, eris.Wrap(err, "sheets credentials")
		}
		return sheets.NewClient(cfg.Sheets.SpreadsheetID,
			sheets.WithBaseURL(cfg.Sheets.BaseURL),
			sheets.WithHTTPClient(hc),
		), nil
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
