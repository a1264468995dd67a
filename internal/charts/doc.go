// Package charts renders the analysis summaries as PNG images using
// gonum/plot. Each chart has a fixed file name in the charts directory so
// repeated runs overwrite the previous images.
package charts
