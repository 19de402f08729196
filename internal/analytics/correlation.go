package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

// CorrelationMatrix maps a column key to the Pearson coefficient against every
// other qualifying column. Undefined coefficients are nil.
type CorrelationMatrix map[string]map[string]*float64

// numericColumn holds one coercible value per response row; present[i] is
// false where the row did not answer the question.
type numericColumn struct {
	key     string
	values  []float64
	present []bool
}

// ComputeCorrelations correlates every pair of answer columns whose values are
// all numeric-coercible, using pairwise-complete rows.
func ComputeCorrelations(responses []models.Response) CorrelationMatrix {
	columns := numericColumns(responses)
	matrix := CorrelationMatrix{}
	if len(columns) < 2 {
		return matrix
	}

	for _, col := range columns {
		matrix[col.key] = make(map[string]*float64, len(columns)-1)
	}

	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			r := pairwisePearson(columns[i], columns[j])
			matrix[columns[i].key][columns[j].key] = r
			matrix[columns[j].key][columns[i].key] = copyFloat(r)
		}
	}

	return matrix
}

// numericColumns returns the qualifying columns sorted by key.
func numericColumns(responses []models.Response) []numericColumn {
	keySet := make(map[string]struct{})
	for i := range responses {
		for key := range responses[i].Answers {
			keySet[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	columns := make([]numericColumn, 0, len(keys))
	for _, key := range keys {
		if col, ok := buildNumericColumn(key, responses); ok {
			columns = append(columns, col)
		}
	}
	return columns
}

func buildNumericColumn(key string, responses []models.Response) (numericColumn, bool) {
	col := numericColumn{
		key:     key,
		values:  make([]float64, len(responses)),
		present: make([]bool, len(responses)),
	}

	observed := 0
	for i := range responses {
		value, ok := responses[i].Answers[key]
		if !ok || value.IsAbsent() {
			continue
		}
		f, ok := coerceNumber(value)
		if !ok {
			return numericColumn{}, false
		}
		col.values[i] = f
		col.present[i] = true
		observed++
	}

	return col, observed > 0
}

// coerceNumber accepts finite numbers and strings that parse as finite numbers.
func coerceNumber(value models.AnswerValue) (float64, bool) {
	if n, ok := value.Number(); ok {
		return n, isFinite(n)
	}
	s, ok := value.Text()
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func pairwisePearson(a, b numericColumn) *float64 {
	xs := make([]float64, 0, len(a.values))
	ys := make([]float64, 0, len(a.values))
	for i := range a.values {
		if a.present[i] && b.present[i] {
			xs = append(xs, a.values[i])
			ys = append(ys, b.values[i])
		}
	}
	return pearson(xs, ys)
}

// pearson returns nil when the coefficient is undefined: fewer than two
// observations or a zero-variance input.
func pearson(xs, ys []float64) *float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return nil
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var numerator, denomX, denomY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	if denomX == 0 || denomY == 0 {
		return nil
	}

	r := numerator / math.Sqrt(denomX*denomY)
	if !isFinite(r) {
		return nil
	}
	r = math.Max(-1, math.Min(1, r))
	return &r
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
