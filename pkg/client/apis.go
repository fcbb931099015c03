package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/healthwatcher/gluco/pkg/calibration"
	"github.com/healthwatcher/gluco/pkg/config"
	"github.com/healthwatcher/gluco/pkg/summary"
	"github.com/healthwatcher/gluco/pkg/types"
	"github.com/healthwatcher/gluco/pkg/utils/ptr"
)

func (c *Client) postJSON(path string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to marshal request for %s", path)
	}
	ret, err := c.Post(path, string(payload))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ret), out); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal response from %s", path)
	}
	return nil
}

func (c *Client) GetVersion() (*types.VersionResponse, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get daemon version")
	}

	var v types.VersionResponse
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal version")
	}

	return &v, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) SetCoefficients(slope, intercept float64) (string, error) {
	payload, err := json.Marshal(types.CoefficientsRequest{
		Slope:     ptr.To(slope),
		Intercept: ptr.To(intercept),
	})
	if err != nil {
		return "", err
	}
	ret, err := c.Put("/coefficients", string(payload))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to set coefficients")
	}

	var msg string
	if err := json.Unmarshal([]byte(ret), &msg); err != nil {
		return ret, nil
	}
	return msg, nil
}

func (c *Client) EstimateSpO2(spo2 float64) (float64, error) {
	var resp types.GlucoseResponse
	if err := c.postJSON("/estimate/spo2", types.SpO2Request{SpO2: ptr.To(spo2)}, &resp); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to estimate glucose from SpO2")
	}
	return resp.Glucose, nil
}

func (c *Client) EstimatePPG(req types.PPGRequest) (float64, error) {
	var resp types.GlucoseResponse
	if err := c.postJSON("/estimate/ppg", req, &resp); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to estimate glucose from PPG")
	}
	return resp.Glucose, nil
}

func (c *Client) Calibrate(voltages, glucose []float64) (calibration.Result, error) {
	var res calibration.Result
	req := types.CalibrateRequest{Voltages: voltages, Glucose: glucose}
	if err := c.postJSON("/calibrate", req, &res); err != nil {
		return calibration.Result{}, pkgerrors.Wrapf(err, "failed to calibrate")
	}
	return res, nil
}

func (c *Client) Summarize(values []float64, low, high float64) (summary.Summary, error) {
	var s summary.Summary
	req := types.SummaryRequest{Values: values, Low: ptr.To(low), High: ptr.To(high)}
	if err := c.postJSON("/summary", req, &s); err != nil {
		return summary.Summary{}, pkgerrors.Wrapf(err, "failed to summarize")
	}
	return s, nil
}

func (c *Client) EstimateCombined(red float64, bpm int, mealFactor float64) (float64, error) {
	var resp types.GlucoseResponse
	req := types.CombinedRequest{Red: ptr.To(red), BPM: ptr.To(bpm), MealFactor: ptr.To(mealFactor)}
	if err := c.postJSON("/combined", req, &resp); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to run combined estimate")
	}
	return resp.Glucose, nil
}

func (c *Client) ResetCombined() error {
	if _, err := c.Delete("/combined"); err != nil {
		return pkgerrors.Wrapf(err, "failed to reset combined estimator")
	}
	return nil
}

func (c *Client) GetReport() (*types.ReportResponse, error) {
	ret, err := c.Get("/report")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get report")
	}

	var r types.ReportResponse
	if err := json.Unmarshal([]byte(ret), &r); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal report")
	}

	return &r, nil
}
