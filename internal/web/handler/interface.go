package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/authz/compiler"
	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/config"
)

// Deps bundles the shared dependencies handed to every web handler.
type Deps struct {
	App      *fiber.App
	Cfg      *config.Config
	DB       *gorm.DB
	Authz    *authz.Service
	Compiler *compiler.Compiler
}

// Valid reports whether the mandatory dependencies are set.
func (d *Deps) Valid() bool {
	return d != nil && d.App != nil && d.Cfg != nil && d.DB != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(deps *Deps) error
}
