// Package ensemble provides volume-based path ensembles: collective
// variable ranges, all-in and all-out ensembles, fixed-length ensembles and
// the transition interface ensemble used by one-way shooting.
package ensemble
