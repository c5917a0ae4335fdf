// Package normalize reconciles the identifier formats of the two sources
// onto the canonical customer_id column.
package normalize

import (
	"strings"

	"cfpipe/internal/dataset"
	"cfpipe/internal/logger"
)

// idArtifact is the formatting token some customer exports embed in their
// identifiers. Every literal occurrence is removed, not just a leading one:
// "cid123cid" becomes "123".
const idArtifact = "cid"

// Feedback maps the feedback dataset's identifier onto customer_id. An
// existing customer_id column wins, an id column is renamed, anything else
// leaves the dataset keyless with a warning so the join can report it.
func Feedback(ds *dataset.Dataset, log *logger.Logger) {
	if ds.HasColumn(dataset.JoinKey) {
		return
	}

	if ds.HasColumn("id") {
		ds.RenameColumn("id", dataset.JoinKey)
		log.Debug("renamed feedback column", "from", "id", "to", dataset.JoinKey)

		return
	}

	log.Warn("feedback data lacks customer_id or id, join may fail")
}

// Customer maps the customer dataset's identifier onto customer_id and
// strips the cid artifact from every value.
func Customer(ds *dataset.Dataset, log *logger.Logger) {
	if !ds.HasColumn(dataset.JoinKey) && ds.HasColumn("customerId") {
		ds.RenameColumn("customerId", dataset.JoinKey)
		log.Debug("renamed customer column", "from", "customerId", "to", dataset.JoinKey)
	}

	if !ds.HasColumn(dataset.JoinKey) {
		log.Warn("customer data lacks customer_id or customerId, join may fail")

		return
	}

	for _, row := range ds.Rows {
		s, ok := dataset.ValueToString(row[dataset.JoinKey])
		if !ok {
			continue
		}

		row[dataset.JoinKey] = strings.ReplaceAll(s, idArtifact, "")
	}
}

// StandardizeJoinKeys coerces both sides' customer_id values to strings
// regardless of their native JSON type, so the join is always string against
// string. Null identifiers stay null and never match.
func StandardizeJoinKeys(left, right *dataset.Dataset) {
	for _, ds := range []*dataset.Dataset{left, right} {
		if !ds.HasColumn(dataset.JoinKey) {
			continue
		}

		for _, row := range ds.Rows {
			if s, ok := dataset.ValueToString(row[dataset.JoinKey]); ok {
				row[dataset.JoinKey] = s
			}
		}
	}
}
