package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/response"
	"agri/pkg/weather/controller"
	"agri/pkg/weather/service"
)

type weatherCtrl struct{ s service.WeatherService }

func New(s service.WeatherService) controller.WeatherController { return &weatherCtrl{s: s} }

func (h *weatherCtrl) Lookup(c echo.Context) error {
	id, err := response.ParamID(c, "region_id")
	if err != nil {
		return err
	}
	out, err := h.s.Lookup(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}
