package controller

import "github.com/labstack/echo/v4"

type WeatherController interface {
	Lookup(c echo.Context) error
}
