// Package pipeline orchestrates the fetch, validate, normalize, join and
// persist stages and owns the run's exit code.
package pipeline

import (
	"strconv"

	"github.com/google/uuid"

	"cfpipe/internal/config"
	"cfpipe/internal/dataset"
	"cfpipe/internal/derive"
	"cfpipe/internal/fetch"
	"cfpipe/internal/join"
	"cfpipe/internal/logger"
	"cfpipe/internal/normalize"
	"cfpipe/internal/report"
	"cfpipe/internal/shape"
)

// Exit codes, part of the observable contract for schedulers and operators.
const (
	ExitOK           = 0
	ExitFetchFailure = 1
	ExitShapeFailure = 2
	ExitEmptyMerge   = 3
	ExitWriteFailure = 4
)

// Envelope keys the two sources wrap their record lists in.
const (
	feedbackKey = "feedback"
	customerKey = "customers"
)

// Pipeline wires the stages together with shared configuration and logging.
type Pipeline struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *fetch.Client
}

// New creates a pipeline from resolved configuration.
func New(cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		log:     log,
		fetcher: fetch.NewClient(cfg.Timeout()),
	}
}

// Run executes one pass and returns the process exit code. The diagnostics
// file is written before every return, whatever the outcome.
func (p *Pipeline) Run() int {
	diag := &RunDiagnostics{
		RunID:       uuid.NewString(),
		FeedbackURL: p.cfg.Sources.FeedbackURL,
		CustomerURL: p.cfg.Sources.CustomerURL,
	}

	// Every log line of this pass carries the run id the diagnostics file
	// will be stamped with.
	log := p.log.With("run_id", diag.RunID)

	log.Info("fetching feedback data", "url", p.cfg.Sources.FeedbackURL)
	feedbackRes := p.fetcher.FetchJSON(p.cfg.Sources.FeedbackURL)

	log.Info("fetching customer data", "url", p.cfg.Sources.CustomerURL)
	customerRes := p.fetcher.FetchJSON(p.cfg.Sources.CustomerURL)

	diag.HTTP = &HTTPSection{
		Feedback: outcome(feedbackRes),
		Customer: outcome(customerRes),
	}

	if !feedbackRes.OK || !customerRes.OK {
		p.logFetchFailures(log, feedbackRes, customerRes)
		p.writeDiagnostics(log, diag)

		return ExitFetchFailure
	}

	feedbackRecs, errF := shape.ExpectListUnderKey(feedbackRes.Data, feedbackKey)
	customerRecs, errC := shape.ExpectListUnderKey(customerRes.Data, customerKey)
	diag.Shape = &ShapeSection{
		Feedback:  shape.Reason(errF, feedbackKey),
		Customers: shape.Reason(errC, customerKey),
	}

	if errF != nil || errC != nil {
		log.Error("unexpected response shapes",
			"feedback", diag.Shape.Feedback, "customers", diag.Shape.Customers)
		p.writeDiagnostics(log, diag)

		return ExitShapeFailure
	}

	feedbackDS := dataset.FromMaps(dataset.OriginFeedback, feedbackRecs)
	customerDS := dataset.FromMaps(dataset.OriginCustomer, customerRecs)
	log.Debug("feedback columns", "columns", feedbackDS.Columns)
	log.Debug("customer columns", "columns", customerDS.Columns)

	normalize.Feedback(feedbackDS, log)
	normalize.Customer(customerDS, log)
	normalize.StandardizeJoinKeys(feedbackDS, customerDS)

	mergedDS, joinDiag := join.Merge(feedbackDS, customerDS, log)
	diag.Diagnostics = *joinDiag

	if mergedDS.Len() == 0 {
		log.Error("merge produced 0 rows, check join keys and source coverage")
		p.writeDiagnostics(log, diag)

		return ExitEmptyMerge
	}

	derive.AddAverageSurveyScore(mergedDS, log)

	path, err := report.WriteCSV(mergedDS, p.cfg.Output.Dir, p.cfg.Output.CSV)
	if err != nil {
		log.Error("failed to write CSV", "error", err)
		p.writeDiagnostics(log, diag)

		return ExitWriteFailure
	}

	diag.OutputCSV = path
	p.writeDiagnostics(log, diag)
	log.Info("csv written", "path", path)
	p.logSummary(log, diag)

	return ExitOK
}

// writeDiagnostics is best-effort: a failure here is logged and swallowed so
// it never masks the run's real outcome.
func (p *Pipeline) writeDiagnostics(log *logger.Logger, diag *RunDiagnostics) {
	path, err := report.WriteDiagnostics(p.cfg.Output.Dir, diag)
	if err != nil {
		log.Warn("could not write diagnostics file", "error", err)

		return
	}

	log.Debug("diagnostics written", "path", path)
}

func (p *Pipeline) logFetchFailures(log *logger.Logger, feedbackRes, customerRes fetch.Result) {
	if !feedbackRes.OK {
		log.Error("fetch failed", "source", dataset.OriginFeedback, "error", feedbackRes.Err)
	}

	if !customerRes.OK {
		log.Error("fetch failed", "source", dataset.OriginCustomer, "error", customerRes.Err)
	}
}

func (p *Pipeline) logSummary(log *logger.Logger, diag *RunDiagnostics) {
	if diag.PreMerge == nil || diag.KeyMismatches == nil || diag.PostMerge == nil {
		return
	}

	rows := [][2]string{
		{"feedback rows", strconv.Itoa(diag.PreMerge.FeedbackRows)},
		{"customer rows", strconv.Itoa(diag.PreMerge.CustomerRows)},
		{"left-only keys", strconv.Itoa(diag.KeyMismatches.LeftOnlyCount)},
		{"right-only keys", strconv.Itoa(diag.KeyMismatches.RightOnlyCount)},
		{"merged rows", strconv.Itoa(diag.PostMerge.MergedRows)},
	}

	for _, line := range report.SummaryTable(rows) {
		log.Info(line)
	}
}

func outcome(r fetch.Result) HTTPOutcome {
	return HTTPOutcome{OK: r.OK, Status: r.Status, Err: r.Err}
}
