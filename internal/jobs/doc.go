// Package jobs loads YAML batch files describing many independent
// conversions and runs them on a bounded worker pool.
//
// A job inherits every setting from the file's defaults block and may
// override any of them. Relative paths are resolved against the directory
// holding the job file. A failing job never stops the others; Run returns
// every failure joined together.
package jobs
