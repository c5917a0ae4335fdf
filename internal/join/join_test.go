package join

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfpipe/internal/dataset"
	"cfpipe/internal/logger"
)

func quietLogger() *logger.Logger {
	return logger.NewLogger("error")
}

func keyed(origin string, keys ...string) *dataset.Dataset {
	rows := make([]dataset.Record, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, dataset.Record{dataset.JoinKey: k})
	}

	return dataset.FromMaps(origin, rows)
}

func TestMerge_MismatchedKeys(t *testing.T) {
	left := keyed(dataset.OriginFeedback, "1", "2")
	right := keyed(dataset.OriginCustomer, "2", "3")

	merged, diag := Merge(left, right, quietLogger())

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "2", merged.Rows[0][dataset.JoinKey])

	require.NotNil(t, diag.KeyMismatches)
	assert.Equal(t, 1, diag.KeyMismatches.LeftOnlyCount)
	assert.Equal(t, 1, diag.KeyMismatches.RightOnlyCount)
	assert.Equal(t, []string{"1"}, diag.KeyMismatches.LeftOnlySample)
	assert.Equal(t, []string{"3"}, diag.KeyMismatches.RightOnlySample)

	require.NotNil(t, diag.PostMerge)
	assert.Equal(t, 0.5, diag.PostMerge.MergeRatioVsFeedback)
	assert.Equal(t, 0.5, diag.PostMerge.MergeRatioVsCustomer)
}

func TestMerge_DuplicateKeysCrossProduct(t *testing.T) {
	left := keyed(dataset.OriginFeedback, "a", "a", "b")
	right := keyed(dataset.OriginCustomer, "a", "a", "a", "b")

	merged, diag := Merge(left, right, quietLogger())

	// 2x3 for "a" plus 1x1 for "b".
	assert.Equal(t, 7, merged.Len())
	assert.Equal(t, 7, diag.PostMerge.MergedRows)
	assert.Equal(t, 2, diag.PreMerge.FeedbackUniqueIDs)
	assert.Equal(t, 2, diag.PreMerge.CustomerUniqueIDs)
}

func TestMerge_RowCountIsSumOfProducts(t *testing.T) {
	// Joined row count must equal the sum over shared keys of
	// (left occurrences x right occurrences).
	leftKeys := []string{"1", "1", "2", "3", "3", "3", "4"}
	rightKeys := []string{"1", "2", "2", "3", "5"}

	merged, _ := Merge(
		keyed(dataset.OriginFeedback, leftKeys...),
		keyed(dataset.OriginCustomer, rightKeys...),
		quietLogger(),
	)

	leftCount := map[string]int{}
	for _, k := range leftKeys {
		leftCount[k]++
	}

	rightCount := map[string]int{}
	for _, k := range rightKeys {
		rightCount[k]++
	}

	want := 0
	for k, lc := range leftCount {
		want += lc * rightCount[k]
	}

	assert.Equal(t, want, merged.Len())
}

func TestMerge_MismatchCountsRecoverUniqueCounts(t *testing.T) {
	left := keyed(dataset.OriginFeedback, "1", "2", "3", "4")
	right := keyed(dataset.OriginCustomer, "3", "4", "5")

	_, diag := Merge(left, right, quietLogger())

	shared := diag.PreMerge.FeedbackUniqueIDs - diag.KeyMismatches.LeftOnlyCount

	assert.Equal(t, diag.PreMerge.FeedbackUniqueIDs,
		diag.KeyMismatches.LeftOnlyCount+shared)
	assert.Equal(t, diag.PreMerge.CustomerUniqueIDs,
		diag.KeyMismatches.RightOnlyCount+shared)
}

func TestMerge_SampleIsBoundedAndOrdered(t *testing.T) {
	keys := make([]string, 8)
	for i := range keys {
		keys[i] = fmt.Sprintf("L%d", i)
	}

	_, diag := Merge(
		keyed(dataset.OriginFeedback, keys...),
		keyed(dataset.OriginCustomer, "other"),
		quietLogger(),
	)

	assert.Equal(t, 8, diag.KeyMismatches.LeftOnlyCount)
	assert.Equal(t, []string{"L0", "L1", "L2", "L3", "L4"},
		diag.KeyMismatches.LeftOnlySample)
}

func TestMerge_MissingJoinKey(t *testing.T) {
	tests := []struct {
		name     string
		left     *dataset.Dataset
		right    *dataset.Dataset
		leftHas  bool
		rightHas bool
	}{
		{
			name:     "left side keyless",
			left:     dataset.FromMaps(dataset.OriginFeedback, []dataset.Record{{"comment": "x"}}),
			right:    keyed(dataset.OriginCustomer, "1"),
			leftHas:  false,
			rightHas: true,
		},
		{
			name:     "right side keyless",
			left:     keyed(dataset.OriginFeedback, "1"),
			right:    dataset.FromMaps(dataset.OriginCustomer, []dataset.Record{{"name": "A"}}),
			leftHas:  true,
			rightHas: false,
		},
		{
			name:     "both keyless",
			left:     dataset.FromMaps(dataset.OriginFeedback, nil),
			right:    dataset.FromMaps(dataset.OriginCustomer, nil),
			leftHas:  false,
			rightHas: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, diag := Merge(tt.left, tt.right, quietLogger())

			assert.Equal(t, 0, merged.Len())
			require.NotNil(t, diag.MissingJoinKey)
			assert.Equal(t, tt.leftHas, diag.MissingJoinKey.FeedbackHasCustomerID)
			assert.Equal(t, tt.rightHas, diag.MissingJoinKey.CustomerHasCustomerID)
			assert.Nil(t, diag.PreMerge)
			assert.Nil(t, diag.PostMerge)
		})
	}
}

func TestMerge_EmptySidesUseGuardedRatios(t *testing.T) {
	left := keyed(dataset.OriginFeedback)
	left.Columns = []string{dataset.JoinKey}
	right := keyed(dataset.OriginCustomer)
	right.Columns = []string{dataset.JoinKey}

	merged, diag := Merge(left, right, quietLogger())

	assert.Equal(t, 0, merged.Len())
	require.NotNil(t, diag.PostMerge)
	assert.Equal(t, 0.0, diag.PostMerge.MergeRatioVsFeedback)
	assert.Equal(t, 0.0, diag.PostMerge.MergeRatioVsCustomer)
}

func TestMerge_ColumnsAndOverlap(t *testing.T) {
	left := dataset.FromMaps(dataset.OriginFeedback, []dataset.Record{
		{"customer_id": "1", "score": 5.0, "region": "east"},
	})
	right := dataset.FromMaps(dataset.OriginCustomer, []dataset.Record{
		{"customer_id": "1", "name": "Alice", "region": "west"},
	})

	merged, _ := Merge(left, right, quietLogger())

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, []string{"customer_id", "region", "score", "name"}, merged.Columns)
	// Overlapping non-key columns keep the left value.
	assert.Equal(t, "east", merged.Rows[0]["region"])
	assert.Equal(t, "Alice", merged.Rows[0]["name"])
}

func TestMerge_NullKeysNeverMatch(t *testing.T) {
	left := dataset.FromMaps(dataset.OriginFeedback, []dataset.Record{
		{"customer_id": nil},
		{"customer_id": "1"},
	})
	right := dataset.FromMaps(dataset.OriginCustomer, []dataset.Record{
		{"customer_id": nil},
		{"customer_id": "1"},
	})

	merged, diag := Merge(left, right, quietLogger())

	assert.Equal(t, 1, merged.Len())
	assert.Equal(t, 1, diag.PreMerge.FeedbackUniqueIDs)
	assert.Equal(t, 1, diag.PreMerge.CustomerUniqueIDs)
}
