// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package training

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/schollz/progressbar/v3"
)

// Reporter turns a run's RoundCallback notifications into terminal
// progress and a rolling score-over-rounds chart, the way
// pkg/search/eval/classical/tuner/tuner.go reports epochs: a
// progress bar for the run, a line plot re-rendered to disk every
// round.
type Reporter struct {
	// PlotPath is where the score chart is rendered after every
	// round. Defaults to "score-plot.html" if empty.
	PlotPath string

	bar *progressbar.ProgressBar

	roundLabels []string
	scores      []opts.LineData
}

// NewReporter returns a Reporter that will track totalRounds rounds.
func NewReporter(totalRounds int) *Reporter {
	return &Reporter{
		bar: progressbar.NewOptions(totalRounds,
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionSetItsString("round"),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
		),
	}
}

// Callback returns a RoundCallback that advances the progress bar,
// appends the round's mean agent score to the plot, and re-renders it.
func (r *Reporter) Callback() RoundCallback {
	return func(elapsed time.Duration, performances []PerformanceRec) {
		_ = r.bar.Add(1)

		var sum float64
		for _, p := range performances {
			sum += p.Score()
		}
		round := 0
		if len(performances) > 0 {
			round = performances[0].Round
		}
		fmt.Printf("training: round %d done in %s, mean score %.4f\n", round, elapsed, sum/float64(len(performances)))

		r.roundLabels = append(r.roundLabels, strconv.Itoa(round))
		r.scores = append(r.scores, opts.LineData{Value: sum / float64(len(performances))})

		plot := charts.NewLine()
		plot.SetXAxis(r.roundLabels).AddSeries("Score", r.scores)

		path := r.PlotPath
		if path == "" {
			path = "score-plot.html"
		}
		if f, err := os.Create(path); err == nil {
			_ = plot.Render(f)
			_ = f.Close()
		}
	}
}

// Close finalizes the progress bar.
func (r *Reporter) Close() {
	_ = r.bar.Close()
}
