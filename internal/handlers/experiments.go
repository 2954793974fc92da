package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/services"
	appErrors "github.com/annavdbeek/plantportal/pkg/errors"
	"github.com/annavdbeek/plantportal/pkg/response"
)

// ExperimentHandler exposes metadata resolution and data fetches.
type ExperimentHandler struct {
	metadata *services.MetadataService
	data     *services.DataService
}

func NewExperimentHandler(metadata *services.MetadataService, data *services.DataService) *ExperimentHandler {
	return &ExperimentHandler{metadata: metadata, data: data}
}

type metadataRequest struct {
	Experiments []models.ExperimentDescriptor `json:"experiments" validate:"required"`
}

// POST /api/experiments/metadata
func (h *ExperimentHandler) Metadata(c *gin.Context) {
	var req metadataRequest
	if !bindAndValidate(c, &req) {
		return
	}

	metadata, err := h.metadata.ResolveMetadata(requestContext(c), req.Experiments)
	if err != nil {
		var ve *services.DescriptorValidationError
		if errors.As(err, &ve) {
			response.ErrorWith(c, appErrors.NewBadRequest(ve.Error()), gin.H{
				"invalidExperiments": ve.Indices,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"metadata": metadata})
}

type dataRequest struct {
	ProjectID      string              `json:"project_id" validate:"required"`
	DatasetName    string              `json:"dataset_name" validate:"required"`
	TableID        string              `json:"table_id" validate:"required"`
	ExperimentName string              `json:"experiment_name" validate:"required"`
	MacAddress     string              `json:"mac_address"`
	TimeRange      services.FetchRange `json:"time_range"`
	Fields         []string            `json:"fields"`
}

// POST /api/experiments/data
func (h *ExperimentHandler) Data(c *gin.Context) {
	var req dataRequest
	if !bindAndValidate(c, &req) {
		return
	}

	descriptor := models.ExperimentDescriptor{
		ProjectID:      req.ProjectID,
		DatasetName:    req.DatasetName,
		TableID:        req.TableID,
		ExperimentName: req.ExperimentName,
		MacAddress:     req.MacAddress,
	}

	rows, err := h.data.FetchData(requestContext(c), descriptor, req.TimeRange, req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"data": rows})
}
