package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"po-generator/internal/config"
	"po-generator/internal/core"
	"po-generator/internal/metrics"
	"po-generator/internal/podoc"
	"po-generator/internal/storage"
)

// NewFromPool assembles the PostgreSQL-backed services, the PDF renderer and
// the signature store described by cfg. m may be nil.
func NewFromPool(pool *pgxpool.Pool, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) ApplicationService {
	sigs := storage.NewSignatureStore(cfg.Storage.UploadDir)

	opts := []podoc.Option{
		podoc.WithRequireSignature(cfg.PDF.RequireSignature),
		podoc.WithLogger(log.Named("podoc")),
	}
	if m != nil {
		opts = append(opts, podoc.WithObserver(m))
	}
	renderer := podoc.NewRenderer(podoc.NewDirResolver(cfg.PDF.AssetDir), sigs, opts...)

	return NewAppService(Services{
		Users:      core.NewUserService(pool),
		Vendors:    core.NewVendorService(pool),
		LineItems:  core.NewLineItemService(pool),
		Templates:  core.NewTemplateService(pool),
		Orders:     core.NewPurchaseOrderService(pool, cfg.PDF.Location, nil),
		Renderer:   renderer,
		Signatures: sigs,
		Metrics:    m,

		RequireSignature: cfg.PDF.RequireSignature,
	})
}
