package site

import (
	"context"
	stderrors "errors"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

// runStages executes defs in order and records each result in the build report.
// It returns the first fatal error. An isolated stage that fails has its fragments
// discarded and counts as a warning, unless the failure is a structural I/O error.
func runStages(ctx context.Context, bs *buildState, defs []StageDef) error {
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			bs.report.recordStage(StageReport{Name: def.Name, Result: StageResultFatal, Err: err}, bs.recorder)
			return err
		}

		mark := len(bs.fragments)
		start := time.Now()
		err := def.Fn(ctx, bs)
		sr := StageReport{Name: def.Name, Duration: time.Since(start)}
		sr.Result, sr.Err = classifyStageResult(def, err)
		if sr.Result == StageResultWarning && def.Isolated && err != nil {
			bs.fragments = bs.fragments[:mark]
		}
		bs.report.recordStage(sr, bs.recorder)

		log := bs.logger.With(logfields.Stage(string(def.Name)), logfields.DurationMS(float64(sr.Duration.Milliseconds())))
		switch sr.Result {
		case StageResultFatal:
			log.Error("Stage failed", logfields.Error(sr.Err))
			return sr.Err
		case StageResultWarning:
			log.Warn("Stage completed with warnings", logfields.Error(sr.Err))
		case StageResultSkipped:
			log.Debug("Stage skipped")
		default:
			log.Debug("Stage completed")
		}
	}
	return nil
}

func classifyStageResult(def StageDef, err error) (StageResult, error) {
	switch {
	case err == nil:
		return StageResultSuccess, nil
	case stderrors.Is(err, errStageSkipped):
		return StageResultSkipped, nil
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return StageResultFatal, err
	case errors.HasKind(err, errors.KindStructuralIO):
		return StageResultFatal, err
	case def.Isolated, errors.IsWarning(err):
		return StageResultWarning, err
	default:
		return StageResultFatal, err
	}
}
