// Package spin models the ensemble of precessing spins.
//
// Each [Spin] is a unit direction plus a fixed per-frame precession angle
// (its offset) about the field axis. The offset grows linearly with the
// spin's index, so a free-precessing ensemble fans out over time and a
// 180° pulse about a transverse axis refocuses it into an echo.
//
// The ensemble never touches a rendering API. Visual state is pushed one
// way through the [Renderer] interface.
package spin
