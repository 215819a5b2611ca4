package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"TurnipSentinel/internal/config"
	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/preset"
	"TurnipSentinel/internal/week"
)

// PricesInput carries a week's prices either as a 13-entry array or inline text.
type PricesInput struct {
	Prices *model.Series `json:"prices"`
	Inline string        `json:"inline"`
}

func (in PricesInput) series() (model.Series, bool, error) {
	switch {
	case in.Prices != nil:
		return *in.Prices, true, week.ValidateSeries(*in.Prices)
	case in.Inline != "":
		s, err := week.ParseInline(in.Inline)
		return s, true, err
	}
	return model.Series{}, false, nil
}

// PredictRequest selects the prices and parameters of one prediction. Without
// prices the current week is used; without parameters the configured preset.
type PredictRequest struct {
	PricesInput
	Preset     string            `json:"preset"`
	Tolerance  *int              `json:"tolerance" binding:"omitempty,gte=0"`
	Parameters *model.Parameters `json:"parameters"`
}

// PredictResponse is the outcome of POST /api/v1/predict.
type PredictResponse struct {
	Preset   string       `json:"preset"`
	Prices   model.Series `json:"prices"`
	Inline   string       `json:"inline"`
	Feasible int          `json:"feasible"`
	Result   model.Result `json:"result"`
	WaveKeys []string     `json:"wave_keys"`
}

// WeekResponse describes the current week's observation book.
type WeekResponse struct {
	Prices    model.Series `json:"prices"`
	Inline    string       `json:"inline"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SetPriceRequest is the body of PUT /api/v1/week/:slot.
type SetPriceRequest struct {
	Price int `json:"price" binding:"required,gt=0,lte=2000"`
}

// ArchivedWeek is one entry of GET /api/v1/history.
type ArchivedWeek struct {
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
	Prices    model.Series `json:"prices"`
	Inline    string       `json:"inline"`
}

const (
	defaultHistoryLimit = 8
	maxHistoryLimit     = 52
)

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) getPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"presets": preset.Keys(),
		"active":  s.forecast.Preset(),
	})
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	series, ok, err := req.series()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if !ok {
		series = s.forecast.Week.Series()
	}

	name := s.forecast.Preset()
	params := s.forecast.Params()
	switch {
	case req.Parameters != nil:
		name = "custom"
		params = req.Parameters.Clone()
	case req.Preset != "":
		p, err := preset.Get(req.Preset)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, err)
			return
		}
		name = req.Preset
		p.Tolerance = params.Tolerance
		params = p
	}
	if req.Tolerance != nil {
		params.Tolerance = *req.Tolerance
	}
	if err := config.ValidateParameters(params); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	result := s.forecast.PredictWith("api", name, params, series)
	c.JSON(http.StatusOK, PredictResponse{
		Preset:   name,
		Prices:   series,
		Inline:   week.FormatInline(series),
		Feasible: result.Feasible(),
		Result:   result,
		WaveKeys: result.WaveKeys(),
	})
}

func (s *Server) weekResponse() WeekResponse {
	st := s.forecast.Week.State()
	return WeekResponse{
		Prices:    st.Prices,
		Inline:    week.FormatInline(st.Prices),
		StartedAt: st.StartedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

func (s *Server) getWeek(c *gin.Context) {
	c.JSON(http.StatusOK, s.weekResponse())
}

func (s *Server) replaceWeek(c *gin.Context) {
	var in PricesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	series, ok, err := in.series()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if !ok {
		errorJSON(c, http.StatusBadRequest, errors.New("prices or inline is required"))
		return
	}
	if err := s.forecast.ReplaceWeek("api", series); err != nil {
		s.weekError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.weekResponse())
}

func (s *Server) resetWeek(c *gin.Context) {
	prev, err := s.forecast.ResetWeek()
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"archived": prev,
		"inline":   week.FormatInline(prev),
	})
}

func (s *Server) setSlot(c *gin.Context) {
	slot, err := model.ParseSlot(c.Param("slot"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if _, err := s.forecast.Observe("api", slot, req.Price); err != nil {
		s.weekError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.weekResponse())
}

func (s *Server) clearSlot(c *gin.Context) {
	slot, err := model.ParseSlot(c.Param("slot"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if _, err := s.forecast.Forget("api", slot); err != nil {
		s.weekError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.weekResponse())
}

func (s *Server) getHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			errorJSON(c, http.StatusBadRequest, errors.New("limit must be between 1 and 52"))
			return
		}
		limit = n
	}

	events, err := s.forecast.History(limit)
	if err != nil {
		log.Error().Err(err).Msg("load week history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	weeks := make([]ArchivedWeek, 0, len(events))
	for _, e := range events {
		weeks = append(weeks, ArchivedWeek{
			StartedAt: e.StartedAt,
			EndedAt:   e.EndedAt,
			Prices:    e.Series,
			Inline:    week.FormatInline(e.Series),
		})
	}
	c.JSON(http.StatusOK, gin.H{"weeks": weeks})
}

func (s *Server) weekError(c *gin.Context, err error) {
	if errors.Is(err, week.ErrInvalidSlot) || errors.Is(err, week.ErrPriceOutOfRange) {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	s.storageError(c, err)
}

func (s *Server) storageError(c *gin.Context, err error) {
	log.Error().Err(err).Str("route", c.FullPath()).Msg("week update failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update week"})
}
