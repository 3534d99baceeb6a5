package controller

import "github.com/labstack/echo/v4"

type SettingController interface {
	Get(c echo.Context) error
	Update(c echo.Context) error
}
