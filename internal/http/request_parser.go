package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"envelope/internal/core"
)

// maxBodyBytes bounds request bodies; budget payloads are tiny.
const maxBodyBytes = 1 << 20

// decodeJSON parses the request body into dst, rejecting oversized bodies.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	// A second document in the body is a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// parsePeriodParam reads the "period" query parameter. An absent parameter
// means the current month.
func parsePeriodParam(r *http.Request) (core.BudgetPeriod, error) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return core.CurrentMonth(), nil
	}
	return core.ParsePeriod(v)
}

// parsePeriodField parses a period key from a request body field. An empty
// field means the current month.
func parsePeriodField(s string) (core.BudgetPeriod, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.CurrentMonth(), nil
	}
	return core.ParsePeriod(s)
}

// parseAmountField parses a decimal amount string such as "12.34" or "-5".
func parseAmountField(s string) (core.Money, error) {
	return core.ParseMoney(strings.TrimSpace(s))
}

// parseDateField parses a YYYY-MM-DD date from a request body field.
func parseDateField(s string) (core.Date, error) {
	return core.ParseDate(strings.TrimSpace(s))
}

// parseCadence builds a target cadence from its wire form.
func parseCadence(kind string, days int, date string) (core.TargetCadence, error) {
	switch core.CadenceKind(strings.TrimSpace(kind)) {
	case core.CadenceWeekly:
		return core.WeeklyCadence(), nil
	case core.CadenceMonthly:
		return core.MonthlyCadence(), nil
	case core.CadenceYearly:
		return core.YearlyCadence(), nil
	case core.CadenceCustom:
		return core.CustomCadence(days), nil
	case core.CadenceByDate:
		due, err := parseDateField(date)
		if err != nil {
			return core.TargetCadence{}, err
		}
		return core.ByDateCadence(due), nil
	default:
		return core.TargetCadence{}, fmt.Errorf("cadence kind %q: %w", kind, core.ErrInvalidFormat)
	}
}

// requireMethod enforces the allowed methods for a route, answering 405
// with an Allow header otherwise.
func requireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// queryID returns a trimmed query parameter value.
func queryID(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
