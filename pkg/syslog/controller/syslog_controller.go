package controller

import "github.com/labstack/echo/v4"

type LogController interface {
	List(c echo.Context) error
}
