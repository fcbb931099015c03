package calibration

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/units"
)

// ReadSamples parses "voltage,glucose" CSV rows. A first row that does not
// parse is treated as a header. Lines starting with '#' are comments. The
// glucose column is either a bare number in mg/dL or a number with a unit
// accepted by units.ParseGlucose.
func ReadSamples(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var samples []Sample
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to read samples")
		}

		v, verr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		g, gerr := parseReference(rec[1])
		if verr != nil || gerr != nil {
			if first {
				first = false
				logrus.WithField("header", rec).Debug("skipping sample header")
				continue
			}
			line, _ := cr.FieldPos(0)
			if verr != nil {
				return nil, fmt.Errorf("%w: line %d: voltage %q", ErrInvalidSample, line, rec[0])
			}
			return nil, fmt.Errorf("%w: line %d: glucose %q: %v", ErrInvalidSample, line, rec[1], gerr)
		}
		first = false

		samples = append(samples, Sample{Voltage: v, Glucose: g})
	}

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	return samples, nil
}

// ReadSamplesFile is ReadSamples on the named file.
func ReadSamplesFile(path string) ([]Sample, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open sample file %s", path)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", path)
		}
	}(fp)

	samples, err := ReadSamples(fp)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to load samples from %s", path)
	}

	return samples, nil
}

func parseReference(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	g, err := units.ParseGlucose(s)
	if err != nil {
		return 0, err
	}
	return g.MgDL(), nil
}
