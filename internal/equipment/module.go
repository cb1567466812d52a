package equipment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/inbound"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/report"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/store"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgconfig"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkguid"
)

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router
	Context context.Context
	// DB is nil when the in-memory store is configured.
	DB   *gorm.DB
	Auth pkgrouter.Middleware
	ID   pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil || dep.Auth == nil {
		return nil, errors.New("equipment: missing dependency")
	}

	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var storage usecase.Store = store.NewInMemoryStore()
	if dep.DB != nil {
		gs := store.NewGormStore(dep.DB)
		if err := gs.Migrate(ctx); err != nil {
			return nil, err
		}
		storage = gs
	}

	if dep.ID == nil {
		ids, err := pkguid.NewSnowflake(-1)
		if err != nil {
			return nil, err
		}
		dep.ID = ids
	}

	uc := usecase.New(usecase.Dependency{
		Store: storage,
		Reports: report.NewPDF(report.Options{
			Compress: dep.Config.GetBool("modules.equipment.report.compress"),
		}),
		ID:           dep.ID,
		Encoding:     dep.Config.GetString("modules.equipment.encoding"),
		HistoryLimit: int(dep.Config.GetInt("modules.equipment.history_limit")),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Auth, inbound.Options{
		MaxUploadBytes: dep.Config.GetInt("modules.equipment.max_upload_bytes"),
	})

	return nil, nil
}
