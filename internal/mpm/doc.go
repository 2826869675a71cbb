// Package mpm implements a 2D Material Point Method solver.
//
// A [Simulator] owns a set of Lagrangian particles and a background grid
// that is rebuilt every step. One call to [Simulator.Step] runs the
// transfer pipeline:
//
//   - [Simulator.ClearGrid]: zero every cell
//   - [Simulator.ParticleToGrid]: scatter mass, APIC momentum and stress
//     forces with quadratic B-spline weights
//   - [Simulator.UpdateGrid]: momentum to velocity, gravity, sticky walls
//   - [Simulator.GridToParticle]: gather velocity and its gradient, advect,
//     clamp, evolve the deformation gradient
//
// Stress comes from a pluggable [Constitutive] law. [NeoHookean] is the
// default; [Passive] turns the stress term off.
//
// # Example
//
//	sim, err := mpm.New(mpm.DefaultParams(), mpm.WithSeed(1))
//	if err != nil {
//	    return err
//	}
//	frame := mpm.NewFrame(800, 800, 3)
//	for i := 0; i < 100; i++ {
//	    sim.Step()
//	}
//	sim.Render(frame)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Step and Render must never run
// at the same time; front-ends share a simulator through
// experiment.Session, which serializes them.
package mpm
