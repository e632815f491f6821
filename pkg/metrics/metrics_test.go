package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "cedula")
				So(manager.subsystem, ShouldEqual, "validator")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When passing empty option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "cedula")
				So(manager.subsystem, ShouldEqual, "validator")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on an isolated registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording validations", func() {
			manager.RecordValidation(true, nil, 0.01)
			manager.RecordValidation(false, []string{"length", "digits"}, 0.02)
			manager.RecordValidation(false, []string{"digits"}, 0.02)

			Convey("Then outcomes and kinds should be counted", func() {
				valid, err := CounterValue(registry, "cedula_validator_validations_total", map[string]string{"outcome": OutcomeValid})
				So(err, ShouldBeNil)
				So(valid, ShouldEqual, 1)

				invalid, err := CounterValue(registry, "cedula_validator_validations_total", map[string]string{"outcome": OutcomeInvalid})
				So(err, ShouldBeNil)
				So(invalid, ShouldEqual, 2)

				digits, err := CounterValue(registry, "cedula_validator_validation_errors_total", map[string]string{"kind": "digits"})
				So(err, ShouldBeNil)
				So(digits, ShouldEqual, 2)

				all, err := CounterValue(registry, "cedula_validator_validation_errors_total", nil)
				So(err, ShouldBeNil)
				So(all, ShouldEqual, 3)
			})
		})

		Convey("When recording HTTP metrics", func() {
			manager.RecordHTTPRequest("validate", "GET", "200", 1.5)
			manager.RecordHTTPRequest("validate", "GET", "400", 1.0)
			manager.RecordErrorByEndpoint("validate", "GET", "client_error")

			Convey("Then requests and errors should be counted", func() {
				total, err := CounterValue(registry, "cedula_validator_http_requests_total", map[string]string{"endpoint": "validate"})
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 2)

				errs, err := CounterValue(registry, "cedula_validator_http_errors_total", map[string]string{"error_type": "client_error"})
				So(err, ShouldBeNil)
				So(errs, ShouldEqual, 1)
			})
		})

		Convey("When reading a family that does not exist", func() {
			v, err := CounterValue(registry, "nope_total", nil)

			Convey("Then it should read as zero", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalMetrics(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package-level recorders should not panic", func() {
			So(func() {
				RecordValidation(true, nil, 0)
				RecordHTTPRequest("healthz", "GET", "200", 0)
				RecordErrorByEndpoint("validate", "GET", "client_error")
				UpdateSystemMemoryUsage(1024 * 1024 * 100)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(1.0)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry should be gatherable", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
