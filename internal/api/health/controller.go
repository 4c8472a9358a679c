package health

import (
	"net/http"

	"github.com/hbomb79/Reel/internal/service"
	"github.com/labstack/echo/v4"
)

type (
	Service interface {
		HealthCheck() service.Health
	}

	Controller struct {
		Service Service
	}
)

func New(service Service) *Controller {
	return &Controller{Service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/", controller.get)
}

func (controller *Controller) get(ec echo.Context) error {
	return ec.JSON(http.StatusOK, controller.Service.HealthCheck())
}
