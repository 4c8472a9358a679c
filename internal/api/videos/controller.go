package videos

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Reel/internal/api/util"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/service"
	"github.com/labstack/echo/v4"
)

type (
	InfoRequest struct {
		URL string `json:"url" validate:"required,url"`
	}

	DownloadRequest struct {
		URL    string  `json:"url" validate:"required,url"`
		Format *string `json:"format" validate:"omitempty,max=256"`
	}

	StreamRequest struct {
		URL string `query:"url" validate:"required,url"`
	}

	DownloadResponse struct {
		ArtifactID  string `json:"artifact_id"`
		Title       string `json:"title"`
		DownloadURL string `json:"download_url"`
	}

	Service interface {
		GetInfo(ctx context.Context, rawURL string) (*extract.VideoMetadata, error)
		Download(ctx context.Context, rawURL string, formatSelector string) (*service.DownloadResult, error)
		StreamURL(ctx context.Context, rawURL string) (string, error)
	}

	// Controller exposes metadata extraction, downloading and stream
	// redirection. Files produced by a download are served by the files
	// controller, mounted at filesPrefix.
	Controller struct {
		Service     Service
		validate    *validator.Validate
		filesPrefix string
	}
)

func New(validate *validator.Validate, service Service, filesPrefix string) *Controller {
	return &Controller{Service: service, validate: validate, filesPrefix: filesPrefix}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/info/", controller.info)
	eg.POST("/download/", controller.download)
	eg.GET("/stream/", controller.stream)
}

func (controller *Controller) info(ec echo.Context) error {
	var request InfoRequest
	if err := controller.bind(ec, &request); err != nil {
		return err
	}

	metadata, err := controller.Service.GetInfo(ec.Request().Context(), request.URL)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, metadata)
}

func (controller *Controller) download(ec echo.Context) error {
	var request DownloadRequest
	if err := controller.bind(ec, &request); err != nil {
		return err
	}

	result, err := controller.Service.Download(ec.Request().Context(), request.URL, util.NotNilOrDefault(request.Format, ""))
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, DownloadResponse{
		ArtifactID:  result.ArtifactID,
		Title:       result.Title,
		DownloadURL: util.JoinPath(controller.filesPrefix, result.ArtifactID),
	})
}

// stream redirects the client to the direct upstream URL of a muxed stream,
// so that media is never proxied through Reel.
func (controller *Controller) stream(ec echo.Context) error {
	var request StreamRequest
	if err := controller.bind(ec, &request); err != nil {
		return err
	}

	target, err := controller.Service.StreamURL(ec.Request().Context(), request.URL)
	if err != nil {
		return err
	}

	return ec.Redirect(http.StatusFound, target)
}

func (controller *Controller) bind(ec echo.Context, request any) error {
	if err := ec.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	return nil
}
