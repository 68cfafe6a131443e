// Package staging owns the on-disk layout of job workspaces under the temp
// directory and the sweep that removes workspaces left behind by a crash.
//
// A workspace is `<temp_dir>/reelscribe-<job id>/`. It is complete once the
// job's transcript (`<job id>.txt`) exists; anything else carrying the prefix
// belongs to a job that never finished.
package staging
