package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-job-matcher/internal/logger"
	"github.com/gcbaptista/go-job-matcher/internal/normalize"
	"github.com/gcbaptista/go-job-matcher/model"
)

// jobsFileField is the multipart field carrying the jobs document.
const jobsFileField = "file"

// singleMatchResponse echoes the description next to its shortlist.
type singleMatchResponse struct {
	Description string `json:"description"`
	model.TopMatch
}

// MatchDescriptionHandler handles POST /match_vaga.
// Form fields: descricao (or description)
func (api *API) MatchDescriptionHandler(c *gin.Context) {
	description, validation := BindSingleMatchForm(c)
	if validation.HasErrors() {
		SendValidationError(c, validation)
		return
	}

	candidates, ok := api.loadCandidates(c)
	if !ok {
		return
	}

	match, err := api.matcher.MatchDescription(c.Request.Context(), description, candidates)
	if err != nil {
		api.logFailure(c, "single match failed", err)
		SendMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, singleMatchResponse{Description: description, TopMatch: *match})
}

// MatchJobsHandler handles POST /match_vagas.
// The jobs document is either the multipart file field "file" or the raw JSON request body.
func (api *API) MatchJobsHandler(c *gin.Context) {
	data, ok := readJobsDocument(c)
	if !ok {
		return
	}

	raw, err := normalize.ParseRawJobs(data)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	candidates, ok := api.loadCandidates(c)
	if !ok {
		return
	}

	report, err := api.matcher.Match(c.Request.Context(), raw, candidates)
	if err != nil {
		api.logFailure(c, "bulk match failed", err)
		SendMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// readJobsDocument reads the upload fully into memory.
func readJobsDocument(c *gin.Context) ([]byte, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile(jobsFileField)
		if err != nil {
			SendReadError(c, err)
			return nil, false
		}
		file, err := header.Open()
		if err != nil {
			SendReadError(c, err)
			return nil, false
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			SendReadError(c, err)
			return nil, false
		}
		return data, true
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendReadError(c, err)
		return nil, false
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
			"A jobs document is required, as multipart field '"+jobsFileField+"' or as the JSON request body")
		return nil, false
	}
	return data, true
}

func (api *API) loadCandidates(c *gin.Context) ([]model.Candidate, bool) {
	candidates, err := api.candidates.Candidates(c.Request.Context())
	if err != nil {
		api.logFailure(c, "loading candidates failed", err)
		SendMatchError(c, err)
		return nil, false
	}
	return candidates, true
}

func (api *API) logFailure(c *gin.Context, msg string, err error) {
	api.logger.Warn(msg, zap.Error(err), zap.String(logger.FieldRequestID, c.GetString(requestIDKey)))
}
