/*
Package observability turns pipeline lifecycle hooks into Prometheus metrics.

Metrics are kept in a private registry so several pipelines can be measured
independently. They can be served over HTTP with Handler or written once to a
node-exporter textfile with WriteToTextfile, which suits one-shot CLI builds.
*/
package observability
