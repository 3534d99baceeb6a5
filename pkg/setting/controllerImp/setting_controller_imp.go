package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/response"
	"agri/pkg/setting/controller"
	"agri/pkg/setting/service"
)

type settingCtrl struct{ s service.SettingService }

func New(s service.SettingService) controller.SettingController { return &settingCtrl{s: s} }

func (h *settingCtrl) Get(c echo.Context) error {
	out, err := h.s.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *settingCtrl) Update(c echo.Context) error {
	var req service.SettingRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}
