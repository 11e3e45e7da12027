package app

import (
	"time"

	"github.com/greenplate/mealsub/internal/app/api/server"
	"github.com/greenplate/mealsub/internal/app/service/catalog"
	"github.com/greenplate/mealsub/internal/app/service/demand"
	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/internal/app/service/statistics"
	"github.com/greenplate/mealsub/internal/app/service/sweep"
	"github.com/greenplate/mealsub/internal/platform/db"
	"github.com/greenplate/mealsub/pkg/config"
	"github.com/greenplate/mealsub/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	lifecycle.Module,
	sweep.Module,
	demand.Module,
	catalog.Module,
	statistics.Module,
)
