package handler

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrMalformedPayload marks a webhook body that cannot be parsed into a
// list of alerts. The whole request is rejected before any dispatch.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// ParsePayload validates the webhook body and extracts its alerts in input
// order. The body must be a JSON object with an "alerts" array; anything
// else is ErrMalformedPayload. Individual alerts missing status, labels or
// annotations are filled with empty defaults rather than rejected, so one
// sloppy alert cannot take down the rest of the batch.
func ParsePayload(body []byte) ([]Alert, error) {
	raw, dataType, _, err := jsonparser.Get(body, "alerts")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf(`%w: missing "alerts" field`, ErrMalformedPayload)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dataType != jsonparser.Array {
		return nil, fmt.Errorf(`%w: "alerts" is not an array`, ErrMalformedPayload)
	}

	alerts := []Alert{}
	var badEntry error
	_, err = jsonparser.ArrayEach(raw, func(item []byte, dt jsonparser.ValueType, _ int, _ error) {
		if dt != jsonparser.Object {
			badEntry = fmt.Errorf(`%w: "alerts" entries must be objects`, ErrMalformedPayload)
			return
		}
		alerts = append(alerts, parseAlert(item))
	})
	if badEntry != nil {
		return nil, badEntry
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return alerts, nil
}

func parseAlert(item []byte) Alert {
	a := Alert{
		Labels:      map[string]string{},
		Annotations: map[string]string{},
	}
	if status, err := jsonparser.GetString(item, "status"); err == nil {
		a.Status = status
	}
	parseStringMap(item, a.Labels, "labels")
	parseStringMap(item, a.Annotations, "annotations")
	return a
}

// parseStringMap copies the string-valued entries of the named object field
// into dst. Non-string values are skipped; a missing field leaves dst empty.
func parseStringMap(item []byte, dst map[string]string, field string) {
	_ = jsonparser.ObjectEach(item, func(key []byte, value []byte, dt jsonparser.ValueType, _ int) error {
		if dt != jsonparser.String {
			return nil
		}
		if s, err := jsonparser.ParseString(value); err == nil {
			dst[string(key)] = s
		}
		return nil
	}, field)
}
