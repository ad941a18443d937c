// Package analysis extracts echo structure and spectra from recorded traces.
//
//   - [PowerSpectrum]: FFT magnitude spectrum of a trace
//   - [DominantBin]: strongest non-DC bin of a spectrum
//   - [FindEchoes]: magnitude peak following each pulse
//   - [EchoDecay]: amplitude ratio between successive echoes
//
// Traces are indexed by sample, where sample i was recorded on frame i+1.
package analysis
