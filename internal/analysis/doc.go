// Package analysis derives trend and target-difference metrics from
// temperature readings. Everything here is a pure function of its inputs.
package analysis
