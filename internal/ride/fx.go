package ride

import (
	"github.com/smallbiznis/rides/internal/ride/repository"
	"github.com/smallbiznis/rides/internal/ride/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ride.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
