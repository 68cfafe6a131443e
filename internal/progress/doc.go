// Package progress turns free-form output lines from the external pipeline
// tools into percentages.
//
// Every parser is total: a line that does not carry progress, or carries it
// in a malformed way, reports ok == false and is otherwise ignored. Progress is
// best effort and never fails a stage.
package progress
