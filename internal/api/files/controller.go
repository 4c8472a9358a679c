package files

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
)

type (
	Service interface {
		FetchArtifact(id string) (afero.File, os.FileInfo, error)
	}

	Controller struct {
		Service Service
	}
)

func New(service Service) *Controller {
	return &Controller{Service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/:id/", controller.get)
}

// get streams the artifact identified by the 'id' path param. Range and
// conditional requests are handled by http.ServeContent.
func (controller *Controller) get(ec echo.Context) error {
	file, info, err := controller.Service.FetchArtifact(ec.Param("id"))
	if err != nil {
		return err
	}
	defer file.Close()

	ec.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", info.Name()))
	http.ServeContent(ec.Response(), ec.Request(), info.Name(), info.ModTime(), file)
	return nil
}
