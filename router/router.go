package router

import (
	"github.com/labstack/echo/v4"

	accountCtrl "agri/pkg/account/controller"
	authCtrl "agri/pkg/auth/controller"
	cropCtrl "agri/pkg/crop/controller"
	datasetCtrl "agri/pkg/dataset/controller"
	forecastCtrl "agri/pkg/forecast/controller"
	healthCtrl "agri/pkg/health/controller"
	"agri/pkg/middleware"
	priceCtrl "agri/pkg/price/controller"
	regionCtrl "agri/pkg/region/controller"
	reportCtrl "agri/pkg/report/controller"
	settingCtrl "agri/pkg/setting/controller"
	syslogCtrl "agri/pkg/syslog/controller"
	weatherCtrl "agri/pkg/weather/controller"
)

type Controllers struct {
	Health     healthCtrl.HealthController
	Auth       authCtrl.AuthController
	Crop       cropCtrl.CropController
	Region     regionCtrl.RegionController
	Price      priceCtrl.PriceController
	Model      forecastCtrl.ModelController
	Task       forecastCtrl.TaskController
	Report     reportCtrl.ReportController
	Setting    settingCtrl.SettingController
	Log        syslogCtrl.LogController
	User       accountCtrl.UserController
	Role       accountCtrl.RoleController
	Permission accountCtrl.PermissionController
	Weather    weatherCtrl.WeatherController
	Dataset    datasetCtrl.DatasetController
}

// New mounts every endpoint under /api/v1 behind auth and audit. Reads need
// any caller; settings, accounts, logs and model changes need ADMIN.
func New(e *echo.Echo, c Controllers, auth, audit echo.MiddlewareFunc) *echo.Echo {
	e.GET("/health", c.Health.Health)

	api := e.Group("/api/v1", auth, audit)
	admin := middleware.RequireRole(middleware.RoleAdmin)

	api.GET("/whoami", c.Auth.WhoAmI)

	api.GET("/crops", c.Crop.List)
	api.GET("/crops/:id", c.Crop.Get)
	api.POST("/crops", c.Crop.Create)
	api.PUT("/crops/:id", c.Crop.Update)
	api.DELETE("/crops/:id", c.Crop.Delete)

	api.GET("/regions", c.Region.List)
	api.GET("/regions/:id", c.Region.Get)
	api.GET("/regions/:id/children", c.Region.Children)
	api.POST("/regions", c.Region.Create)
	api.PUT("/regions/:id", c.Region.Update)
	api.PATCH("/regions/:id/visibility", c.Region.UpdateVisibility)
	api.DELETE("/regions/:id", c.Region.Delete)

	api.GET("/prices", c.Price.List)
	api.GET("/prices/:id", c.Price.Get)
	api.POST("/prices", c.Price.Create)
	api.PUT("/prices/:id", c.Price.Update)
	api.DELETE("/prices/:id", c.Price.Delete)
	api.POST("/prices/import", c.Price.Import)
	api.POST("/prices/import/url", c.Price.ImportURL)

	// forecast
	api.GET("/forecast/models", c.Model.List)
	api.GET("/forecast/models/:id", c.Model.Get)
	api.POST("/forecast/models", c.Model.Create, admin)
	api.PUT("/forecast/models/:id", c.Model.Update, admin)
	api.DELETE("/forecast/models/:id", c.Model.Delete, admin)

	api.GET("/forecast/tasks", c.Task.List)
	api.GET("/forecast/tasks/:id", c.Task.Get)
	api.GET("/forecast/tasks/:id/results", c.Task.Results)
	api.POST("/forecast/tasks", c.Task.Create)
	api.PATCH("/forecast/tasks/:id", c.Task.Update)
	api.DELETE("/forecast/tasks/:id", c.Task.Delete)
	api.POST("/forecast/tasks/:id/run", c.Task.Run)

	api.GET("/reports", c.Report.History)
	api.GET("/reports/:id", c.Report.Get)
	api.POST("/reports", c.Report.Create)
	api.PUT("/reports/:id", c.Report.Update)
	api.DELETE("/reports/:id", c.Report.Delete)
	api.POST("/reports/:id/export", c.Report.Export)

	api.GET("/weather/:region_id", c.Weather.Lookup)

	api.GET("/datasets", c.Dataset.List)
	api.GET("/datasets/:id", c.Dataset.Get)
	api.POST("/datasets", c.Dataset.Upload)
	api.DELETE("/datasets/:id", c.Dataset.Delete)

	api.GET("/settings", c.Setting.Get)
	api.PUT("/settings", c.Setting.Update, admin)

	// administration
	api.GET("/logs", c.Log.List, admin)

	api.GET("/users", c.User.List, admin)
	api.GET("/users/:id", c.User.Get, admin)
	api.POST("/users", c.User.Create, admin)
	api.PUT("/users/:id", c.User.Update, admin)
	api.DELETE("/users/:id", c.User.Delete, admin)
	api.GET("/users/:id/roles", c.User.Roles, admin)
	api.PUT("/users/:id/roles/:role_id", c.User.AssignRole, admin)
	api.DELETE("/users/:id/roles/:role_id", c.User.RevokeRole, admin)

	api.GET("/roles", c.Role.List, admin)
	api.GET("/roles/:id", c.Role.Get, admin)
	api.POST("/roles", c.Role.Create, admin)
	api.DELETE("/roles/:id", c.Role.Delete, admin)
	api.GET("/roles/:id/permissions", c.Role.Permissions, admin)
	api.PUT("/roles/:id/permissions/:permission_id", c.Role.Grant, admin)
	api.DELETE("/roles/:id/permissions/:permission_id", c.Role.Revoke, admin)

	api.GET("/permissions", c.Permission.List, admin)
	api.POST("/permissions", c.Permission.Create, admin)
	return e
}
