// Package preflight provides readiness checks for the filesystem paths and
// the catalog that prick depends on.
//
// The CLI "prick status" command renders these results; each check returns
// a Result instead of an error so one failing path does not hide the rest.
package preflight
