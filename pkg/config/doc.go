// Package config loads logger configuration from YAML files and
// assembles ready-to-use loggers from it. The file surface covers the
// collector endpoint, local sinks and the default record enrichment.
package config
