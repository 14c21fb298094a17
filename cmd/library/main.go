// Command library serves the library catalog web application.
package main

import (
	"context"
	"log/slog"
	"os"

	"library/config"
	"library/internal/delivery"
	"library/internal/delivery/api"
	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/router/handler"
	"library/internal/infra/auth"
	logs "library/internal/infra/log"
	"library/internal/infra/metrics"
	"library/internal/infra/persistence/postgres"
	"library/internal/infra/storage"
	"library/internal/usecase/impl"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
		infraModule,
		persistenceModule,
		usecaseModule,
		httpModule,
		fx.Invoke(serve),
	).Run()
}

var infraModule = fx.Module("infra",
	fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.New,
		auth.NewBcryptHasher,
		auth.NewJWTService,
		storage.New,
	),
)

var persistenceModule = fx.Module("persistence",
	fx.Provide(
		postgres.New,
		postgres.NewTransactionManager,
		postgres.NewPublisherRepository,
		postgres.NewBookRepository,
		postgres.NewAccountRepository,
		postgres.NewMemberRepository,
		postgres.NewOrderRepository,
		postgres.NewReviewRepository,
	),
)

var usecaseModule = fx.Module("usecase",
	fx.Provide(
		impl.NewCatalogService,
		impl.NewOrderService,
		impl.NewReviewService,
		impl.NewMemberService,
		impl.NewAdminService,
	),
)

var httpModule = fx.Module("http",
	fx.Provide(
		middleware.NewSessionMiddleware,
		handler.NewCatalogHandler,
		handler.NewOrderHandler,
		handler.NewReviewHandler,
		handler.NewAuthHandler,
		handler.NewAdminHandler,
		handler.NewHealthHandler,
		fx.Annotate(api.NewServer, fx.ResultTags(`group:"deliveries"`)),
	),
)

type serveParams struct {
	fx.In

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

// serve starts every delivery once fx has finished construction. A delivery
// that fails to listen takes the process down.
func serve(ctx context.Context, params serveParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Delivery stopped", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
