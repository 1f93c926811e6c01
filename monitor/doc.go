// Package monitor wires Go runtime statistics through eventual pipelines
// for the eventualmon dashboard.
//
// A [Pipeline] samples the runtime on a timer, derives memory and
// scheduler views from each sample, joins them into frames, throttles
// the frame feed to the display rate, and pipes every frame into a
// structured log. It is both the data source of the dashboard and a
// worked example of composing the combinators in
// [github.com/edgeandnode/eventuals].
//
// Configuration follows the usual shape: create a [Config], register CLI
// flags, optionally overlay a YAML file:
//
//	cfg := monitor.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	if path != "" {
//	    err := cfg.LoadFile(path)
//	}
//
//	pipeline := monitor.NewPipeline(cfg, logger)
//	defer pipeline.Close()
package monitor
