// Package derive computes optional enrichment columns from survey responses.
package derive

import (
	"cfpipe/internal/dataset"
	"cfpipe/internal/logger"
)

// Survey input columns and the derived output column.
const (
	SurveyQ1Column = "survey_q1"
	SurveyQ2Column = "survey_q2"

	AverageScoreColumn = "avg_survey_score"
)

// AddAverageSurveyScore coerces the two survey columns to numbers and
// appends their row-wise mean, skipping values that fail coercion: one
// missing value degenerates to the other, two leave the cell empty. When
// either column is absent the enrichment is skipped entirely; it is never
// required for success. Reports whether the column was added.
func AddAverageSurveyScore(ds *dataset.Dataset, log *logger.Logger) bool {
	if !ds.HasColumn(SurveyQ1Column) || !ds.HasColumn(SurveyQ2Column) {
		log.Debug("skipping derived fields, survey columns missing",
			"has_q1", ds.HasColumn(SurveyQ1Column),
			"has_q2", ds.HasColumn(SurveyQ2Column))

		return false
	}

	values := make([]any, ds.Len())

	for i, row := range ds.Rows {
		q1, ok1 := dataset.ToFloat(row[SurveyQ1Column])
		q2, ok2 := dataset.ToFloat(row[SurveyQ2Column])

		// The inputs themselves become numeric (or missing) in the output,
		// matching the coercion applied for the mean.
		row[SurveyQ1Column] = numericOrNil(q1, ok1)
		row[SurveyQ2Column] = numericOrNil(q2, ok2)

		switch {
		case ok1 && ok2:
			values[i] = (q1 + q2) / 2
		case ok1:
			values[i] = q1
		case ok2:
			values[i] = q2
		}
	}

	ds.AddColumn(AverageScoreColumn, values)
	log.Info("derived column added", "column", AverageScoreColumn)

	return true
}

func numericOrNil(v float64, ok bool) any {
	if !ok {
		return nil
	}

	return v
}
