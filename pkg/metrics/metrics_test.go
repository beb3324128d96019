package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithConstLabels(map[string]string{"reference": "who"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created and registered", func() {
				So(manager, ShouldNotBeNil)
				manager.ObservationScored("wfa")

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_observations_scored_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("Scoring counters are labelled by indicator and kind", func() {
			m.ObservationScored("wfa")
			m.ObservationScored("wfa")
			m.ObservationRejected("bmifa", "age_out_of_range")
			m.TailCorrection("wfl")

			So(testutil.ToFloat64(m.observationsScored.WithLabelValues("wfa")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.observationsRejected.WithLabelValues("bmifa", "age_out_of_range")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.tailCorrections.WithLabelValues("wfl")), ShouldEqual, 1)
		})

		Convey("Gauges hold the last value", func() {
			m.TablesLoaded("who", 22)
			m.TableRows("wfa_boys_0_5", 61)
			m.QueueSize(5)
			m.QueueSize(2)
			m.WorkerCount(4)

			So(testutil.ToFloat64(m.tablesLoaded.WithLabelValues("who")), ShouldEqual, 22)
			So(testutil.ToFloat64(m.tableRows.WithLabelValues("wfa_boys_0_5")), ShouldEqual, 61)
			So(testutil.ToFloat64(m.queueSize), ShouldEqual, 2)
			So(testutil.ToFloat64(m.workerCount), ShouldEqual, 4)
		})

		Convey("Batch counters accumulate", func() {
			m.BatchRecords(10)
			m.DuplicateRecord()
			m.QueueEnqueueError("closed")

			So(testutil.ToFloat64(m.batchRecords), ShouldEqual, 10)
			So(testutil.ToFloat64(m.duplicateRecords), ShouldEqual, 1)
			So(testutil.ToFloat64(m.queueEnqueueErrors.WithLabelValues("closed")), ShouldEqual, 1)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Global recorders write to the custom registry", t, func() {
		RecordObservationScored("lhfa")
		RecordScoringLatency(0.2)
		UpdateTableLoadDuration(12)

		So(testutil.ToFloat64(globalManager.observationsScored.WithLabelValues("lhfa")), ShouldBeGreaterThanOrEqualTo, 1)
		n, err := testutil.GatherAndCount(GetRegistry(), "growup_zscore_table_load_duration_milliseconds")
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)

		Convey("And can be written as a textfile", func() {
			path := filepath.Join(t.TempDir(), "growup.prom")
			So(WriteTextfile(path), ShouldBeNil)

			body, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, "growup_zscore_observations_scored_total")
		})
	})
}
