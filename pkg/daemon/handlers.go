package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/calibration"
	"github.com/healthwatcher/gluco/pkg/config"
	"github.com/healthwatcher/gluco/pkg/estimator"
	"github.com/healthwatcher/gluco/pkg/events"
	"github.com/healthwatcher/gluco/pkg/summary"
	"github.com/healthwatcher/gluco/pkg/types"
	"github.com/healthwatcher/gluco/pkg/version"
)

var errMissingField = errors.New("missing required field")

func abort(c *gin.Context, code int, err error) {
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, types.VersionResponse{
		Version: version.Version,
		Commit:  version.GitCommit,
	})
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func setCoefficients(c *gin.Context) {
	var req types.CoefficientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Slope == nil || req.Intercept == nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("%w: slope and intercept", errMissingField))
		return
	}

	conf.SetCoefficients(*req.Slope, *req.Intercept)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"slope":     *req.Slope,
		"intercept": *req.Intercept,
	}).Info("set PPG coefficients")

	publish(events.CoefficientsUpdated, events.CoefficientsEvent{
		Slope:     *req.Slope,
		Intercept: *req.Intercept,
		Ts:        time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set PPG coefficients to a=%.4g, b=%.4g", *req.Slope, *req.Intercept))
}

func estimateSpO2(c *gin.Context) {
	var req types.SpO2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.SpO2 == nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("%w: spo2", errMissingField))
		return
	}

	g := estimator.FromSpO2(*req.SpO2)
	publishEstimate(events.SourceSpO2, *req.SpO2, 0, g)

	c.IndentedJSON(http.StatusOK, types.GlucoseResponse{Glucose: g})
}

func estimatePPG(c *gin.Context) {
	var req types.PPGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Voltage == nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("%w: voltage", errMissingField))
		return
	}

	params := req.Params(config.PPGDefaults(conf))

	g := estimator.FromPPG(*req.Voltage, estimator.WithParams(params))
	publishEstimate(events.SourcePPG, *req.Voltage, 0, g)

	c.IndentedJSON(http.StatusOK, types.GlucoseResponse{Glucose: g})
}

func calibrate(c *gin.Context) {
	var req types.CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	res, err := calibration.Fit(req.Voltages, req.Glucose)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"samples":   len(req.Voltages),
		"slope":     res.Slope,
		"intercept": res.Intercept,
		"r2":        res.R2,
	}).Debug("calibrated")

	c.IndentedJSON(http.StatusOK, res)
}

func summarize(c *gin.Context) {
	var req types.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	low, high := conf.TargetLow(), conf.TargetHigh()
	if req.Low != nil {
		low = *req.Low
	}
	if req.High != nil {
		high = *req.High
	}

	s, err := summary.Summarize(req.Values, low, high)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	c.IndentedJSON(http.StatusOK, s)
}

func estimateCombined(c *gin.Context) {
	var req types.CombinedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Red == nil || req.BPM == nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("%w: red and bpm", errMissingField))
		return
	}

	mealFactor := 1.0
	if req.MealFactor != nil {
		mealFactor = *req.MealFactor
	}

	g := session.Estimate(*req.Red, *req.BPM, mealFactor)
	publishEstimate(events.SourceCombined, *req.Red, *req.BPM, g)

	c.IndentedJSON(http.StatusOK, types.GlucoseResponse{Glucose: g})
}

func resetCombined(c *gin.Context) {
	session.Reset()
	logrus.Info("combined estimator session reset")
	publish(events.CombinedReset, struct {
		Ts int64 `json:"ts"`
	}{time.Now().Unix()})
	c.IndentedJSON(http.StatusOK, "ok")
}
