package main

import (
	"context"
	"fmt"

	"github.com/iyhunko/platforma-manager/internal/config"
	"github.com/iyhunko/platforma-manager/internal/export"
	"github.com/iyhunko/platforma-manager/internal/images"
	"github.com/iyhunko/platforma-manager/internal/logger"
	"github.com/iyhunko/platforma-manager/internal/repository/jsonfile"
	"github.com/iyhunko/platforma-manager/internal/service"
	"github.com/iyhunko/platforma-manager/internal/sheets"
	sqspkg "github.com/iyhunko/platforma-manager/internal/sqs"
)

// app holds the wired components shared by the commands.
type app struct {
	conf       *config.Config
	service    *service.CatalogService
	projector  *export.Projector
	images     *images.Library
	publisher  *sqspkg.Publisher
	dispatcher *service.EventDispatcher
}

type appOptions struct {
	// background publishes events through a buffered dispatcher instead of inline.
	background bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	logger.InitJSONLogger(false)
	conf, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	logger.InitJSONLogger(conf.DebugMode)

	a := &app{
		conf:      conf,
		projector: export.NewProjector(conf.Site.AssetsPrefix, conf.Site.DefaultLink),
		images:    images.NewLibrary(conf.Store.ImagesDir),
	}

	svcOpts := []service.Option{
		service.WithImages(a.images),
		service.WithSiteExporter(export.NewSiteWriter(a.projector, conf.Site.DataPath)),
		service.WithSheetTimeout(conf.Sheets.Timeout),
	}

	sheet, err := newSheet(conf.Sheets)
	if err != nil {
		return nil, err
	}
	if sheet != nil {
		svcOpts = append(svcOpts, service.WithSheet(sheet))
	}

	if conf.AWS.SQSQueueURL != "" {
		client, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		a.publisher = sqspkg.NewPublisher(client, conf.AWS.SQSQueueURL)
		if opts.background {
			a.dispatcher = service.NewEventDispatcher(a.publisher, 0)
			svcOpts = append(svcOpts, service.WithPublisher(a.dispatcher))
		} else {
			svcOpts = append(svcOpts, service.WithPublisher(a.publisher))
		}
	}

	a.service = service.NewCatalogService(jsonfile.NewStore(conf.Store.Path), svcOpts...)
	if err := a.service.Load(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// newSheet picks the local workbook when a path is set, then Google Sheets. It returns nil
// when neither is configured.
func newSheet(conf config.SheetsConfig) (sheets.Sheet, error) {
	switch {
	case conf.XLSXPath != "":
		return sheets.NewWorkbook(conf.XLSXPath, sheets.SheetName(conf.Range))
	case conf.SpreadsheetID != "":
		return sheets.NewGoogleClient(sheets.GoogleConfig{
			BaseURL:       conf.BaseURL,
			SpreadsheetID: conf.SpreadsheetID,
			Range:         conf.Range,
			APIKey:        conf.APIKey,
			AccessToken:   conf.AccessToken,
			Timeout:       conf.Timeout,
		})
	default:
		return nil, nil
	}
}
