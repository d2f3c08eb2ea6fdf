package global

import (
	"github.com/go-playground/validator/v10"
	"github.com/joaobaungartner/goncalves-backend/config"
)

// Global state shared across packages. Database handles are injected
// explicitly through database.Store, only configuration and the
// validator live here.
var (
	Validate     *validator.Validate
	ServerConfig *config.Configuration
)
