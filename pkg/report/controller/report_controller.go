package controller

import "github.com/labstack/echo/v4"

type ReportController interface {
	History(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Export(c echo.Context) error
}
