package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agridata-lab/produce-report/internal/runtime"
)

// getResultFolder builds the per-run output path:
// <results>/<strategy>/<config>/[<start>_<end>/]<data file>.
func getResultFolder(configPath string, dataPath string, e *ReplayEngineV1, strategy runtime.StrategyRuntime) string {
	folder := filepath.Join(
		e.resultsFolder,
		strategy.Name(),
		baseNameWithoutExt(configPath),
	)

	// Runs restricted to a time range get their own folder level so
	// different ranges over the same data do not collide.
	if e.config.StartTime.IsSome() || e.config.EndTime.IsSome() {
		startTimeStr := "all"
		endTimeStr := "all"

		if e.config.StartTime.IsSome() {
			startTimeStr = e.config.StartTime.Unwrap().Format("20060102")
		}

		if e.config.EndTime.IsSome() {
			endTimeStr = e.config.EndTime.Unwrap().Format("20060102")
		}

		folder = filepath.Join(folder, fmt.Sprintf("%s_%s", startTimeStr, endTimeStr))
	}

	return filepath.Join(folder, baseNameWithoutExt(dataPath))
}

func baseNameWithoutExt(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
