// Package stats implements the small numeric helpers used by edge selection
// and node coloring: an interpolating quantile and max-normalization.
//
// [Quantile] follows the default method of NumPy and R type 7: the sample is
// sorted and the value at fractional rank h = (n-1)q is linearly
// interpolated between its two neighbouring order statistics. The quantile of
// a single value is that value for every q.
package stats
