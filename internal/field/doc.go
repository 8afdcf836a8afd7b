// Package field provides analytic potential models used as stand-ins for a
// full electromagnetic field solver. Each model samples a trapping potential
// over a fixed coordinate axis and reconfigures itself from control values
// (per-beam powers) between samples.
//
// Models report curve values in millikelvin and coordinates in meters, the
// working units of the analysis pipeline.
package field
