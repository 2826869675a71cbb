// Package analysis provides spectral tools for simulation diagnostics.
//
// An elastic block dropped onto the floor rings: its kinetic energy
// oscillates at a frequency set by the material stiffness. [Spectrum]
// and [DominantFrequency] recover that frequency from the per-step
// kinetic-energy series:
//
//	f, power := analysis.DominantFrequency(ke, dt)
package analysis
