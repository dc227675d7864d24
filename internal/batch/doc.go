// Package batch runs a transform over every regular file of a source directory,
// writing results into a destination directory.
//
// Files whose name already exists in the destination are skipped, so a run can be
// repeated to pick up where an earlier one stopped. Each remaining file is
// transformed with a bounded number of attempts and a fixed wait between them.
// Files are processed one at a time, in directory order. A file which keeps
// failing is recorded in the Summary and never aborts the rest of the run; only
// directory level problems do.
package batch
