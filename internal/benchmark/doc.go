// Package benchmark holds cross-package benchmarks comparing the task queue
// and thread pool against channel based equivalents.
package benchmark
