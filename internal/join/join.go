// Package join performs the customer_id inner join and computes the
// match-quality diagnostics that explain how well it went.
package join

import (
	"cfpipe/internal/dataset"
	"cfpipe/internal/logger"
)

// sampleLimit bounds the mismatch key samples in the diagnostics.
const sampleLimit = 5

// Origin tags used when counting which sides reference a key.
const (
	originLeft  = 1 << iota // feedback
	originRight             // customer
)

// MissingJoinKey reports which side lacks the join column entirely.
type MissingJoinKey struct {
	FeedbackHasCustomerID bool `json:"feedback_has_customer_id"`
	CustomerHasCustomerID bool `json:"customer_has_customer_id"`
}

// PreMerge captures each side's shape before joining. Unique counts cover
// distinct non-null keys only.
type PreMerge struct {
	FeedbackRows      int `json:"feedback_rows"`
	CustomerRows      int `json:"customer_rows"`
	FeedbackUniqueIDs int `json:"feedback_unique_ids"`
	CustomerUniqueIDs int `json:"customer_unique_ids"`
}

// KeyMismatches counts the keys present on exactly one side, with a bounded
// sample of each in first-occurrence order.
type KeyMismatches struct {
	LeftOnlyCount   int      `json:"left_only_count"`
	RightOnlyCount  int      `json:"right_only_count"`
	LeftOnlySample  []string `json:"left_only_sample"`
	RightOnlySample []string `json:"right_only_sample"`
}

// PostMerge captures the join outcome relative to both inputs. The ratios
// divide by max(1, rows) so an empty side yields 0 rather than a fault.
type PostMerge struct {
	MergedRows           int     `json:"merged_rows"`
	MergeRatioVsFeedback float64 `json:"merge_ratio_vs_feedback"`
	MergeRatioVsCustomer float64 `json:"merge_ratio_vs_customer"`
}

// Diagnostics is the full join report. MissingJoinKey is set only when the
// join could not run at all; the other sections only when it did.
type Diagnostics struct {
	MissingJoinKey *MissingJoinKey `json:"missing_join_key,omitempty"`
	PreMerge       *PreMerge       `json:"pre_merge,omitempty"`
	KeyMismatches  *KeyMismatches  `json:"key_mismatches,omitempty"`
	PostMerge      *PostMerge      `json:"post_merge,omitempty"`
}

// Merge inner-joins feedback (left) against customers (right) on
// customer_id. Duplicate keys on either side produce the full cross-product
// of matching rows. The result's columns are the left columns followed by
// the right columns not already present on the left; overlapping non-key
// columns keep the left value.
func Merge(left, right *dataset.Dataset, log *logger.Logger) (*dataset.Dataset, *Diagnostics) {
	diag := &Diagnostics{}
	merged := &dataset.Dataset{Origin: dataset.OriginMerged}

	leftHas := left.HasColumn(dataset.JoinKey)
	rightHas := right.HasColumn(dataset.JoinKey)

	if !leftHas || !rightHas {
		diag.MissingJoinKey = &MissingJoinKey{
			FeedbackHasCustomerID: leftHas,
			CustomerHasCustomerID: rightHas,
		}
		log.Error("missing customer_id in one or both datasets, cannot merge",
			"feedback_has_key", leftHas, "customer_has_key", rightHas)

		return merged, diag
	}

	leftGroups, leftKeys := groupByKey(left)
	rightGroups, rightKeys := groupByKey(right)

	diag.PreMerge = &PreMerge{
		FeedbackRows:      left.Len(),
		CustomerRows:      right.Len(),
		FeedbackUniqueIDs: len(leftKeys),
		CustomerUniqueIDs: len(rightKeys),
	}

	diag.KeyMismatches = findMismatches(leftKeys, rightKeys)
	if diag.KeyMismatches.LeftOnlyCount > 0 || diag.KeyMismatches.RightOnlyCount > 0 {
		log.Warn("join key mismatches detected",
			"left_only", diag.KeyMismatches.LeftOnlyCount,
			"right_only", diag.KeyMismatches.RightOnlyCount)
	}

	merged.Columns = mergedColumns(left, right)

	for _, key := range leftKeys {
		rightIdx, shared := rightGroups[key]
		if !shared {
			continue
		}

		for _, li := range leftGroups[key] {
			for _, ri := range rightIdx {
				merged.Rows = append(merged.Rows, mergeRows(left.Rows[li], right.Rows[ri], left))
			}
		}
	}

	diag.PostMerge = &PostMerge{
		MergedRows:           merged.Len(),
		MergeRatioVsFeedback: float64(merged.Len()) / float64(max(1, left.Len())),
		MergeRatioVsCustomer: float64(merged.Len()) / float64(max(1, right.Len())),
	}

	log.Info("merged rows",
		"merged", merged.Len(), "feedback", left.Len(), "customers", right.Len())

	return merged, diag
}

// groupByKey maps each non-null key to the indices of the rows carrying it,
// and returns the distinct keys in first-occurrence order.
func groupByKey(ds *dataset.Dataset) (map[string][]int, []string) {
	groups := make(map[string][]int)

	var order []string

	for i, row := range ds.Rows {
		v, ok := row[dataset.JoinKey]
		if !ok || v == nil {
			continue
		}

		key, ok := dataset.ValueToString(v)
		if !ok {
			continue
		}

		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}

		groups[key] = append(groups[key], i)
	}

	return groups, order
}

// findMismatches tags every key with the origins that reference it and
// classifies keys referenced by exactly one origin. This is a per-key origin
// cardinality count over the union of both sides, not a value diff.
func findMismatches(leftKeys, rightKeys []string) *KeyMismatches {
	origins := make(map[string]int, len(leftKeys)+len(rightKeys))
	for _, k := range leftKeys {
		origins[k] |= originLeft
	}

	for _, k := range rightKeys {
		origins[k] |= originRight
	}

	km := &KeyMismatches{LeftOnlySample: []string{}, RightOnlySample: []string{}}

	for _, k := range leftKeys {
		if origins[k] == originLeft {
			km.LeftOnlyCount++
			if len(km.LeftOnlySample) < sampleLimit {
				km.LeftOnlySample = append(km.LeftOnlySample, k)
			}
		}
	}

	for _, k := range rightKeys {
		if origins[k] == originRight {
			km.RightOnlyCount++
			if len(km.RightOnlySample) < sampleLimit {
				km.RightOnlySample = append(km.RightOnlySample, k)
			}
		}
	}

	return km
}

// mergedColumns keeps a stable output order: left columns first, then the
// right columns that do not collide.
func mergedColumns(left, right *dataset.Dataset) []string {
	cols := append([]string(nil), left.Columns...)

	for _, c := range right.Columns {
		if !left.HasColumn(c) {
			cols = append(cols, c)
		}
	}

	return cols
}

// mergeRows copies the left row and fills in the right-only fields.
func mergeRows(lrow, rrow dataset.Record, left *dataset.Dataset) dataset.Record {
	out := lrow.Clone()

	for k, v := range rrow {
		if !left.HasColumn(k) {
			out[k] = v
		}
	}

	return out
}
