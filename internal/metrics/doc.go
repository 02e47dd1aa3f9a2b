// Package metrics defines the Recorder used by the build pipeline and the
// watch reconciler, with a no-op default and a Prometheus implementation.
//
// Metrics recorded:
//
//	docpress_stage_duration_seconds{stage}
//	docpress_stage_results_total{stage,result}
//	docpress_run_duration_seconds{scope}
//	docpress_run_outcomes_total{outcome}
//	docpress_hook_duration_seconds{point}
//	docpress_assets_emitted_total
//	docpress_reconcile_events_total{kind,outcome}
//
// The Prometheus registry is served by the live server when metrics are enabled.
package metrics
